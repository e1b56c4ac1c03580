// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"strings"
	"time"
)

// WhereBuilder accumulates AND-ed conditions with positional arguments.
// Optional filters whose value is empty are skipped, so callers can pass
// a request filter straight through.
//
//	where, args := query.NewWhereBuilder().
//		AddTimeRange("occurred_at", &since, nil).
//		AddIn("interaction_type", kinds).
//		BuildWithPrefix()
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{args: []any{}}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddTimeRange bounds column to [start, end). Nil or zero bounds are
// open.
func (wb *WhereBuilder) AddTimeRange(column string, start, end *time.Time) *WhereBuilder {
	for _, b := range [...]struct {
		t  *time.Time
		op string
	}{{start, " >= ?"}, {end, " < ?"}} {
		if b.t != nil && !b.t.IsZero() {
			wb.AddClause(column+b.op, *b.t)
		}
	}
	return wb
}

// AddEquals adds "column = ?" unless value is empty.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddIn adds "column IN (?, ...)" unless values is empty.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	marks := strings.Repeat("?, ", len(values)-1) + "?"
	return wb.AddClause(column+" IN ("+marks+")", args...)
}

// Build joins the conditions with AND. With none it yields "1=1" so the
// result can always follow WHERE.
func (wb *WhereBuilder) Build() (string, []any) {
	if wb.IsEmpty() {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with "WHERE " prepended.
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

func (wb *WhereBuilder) Count() int { return len(wb.clauses) }

func (wb *WhereBuilder) IsEmpty() bool { return len(wb.clauses) == 0 }
