// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package query builds parameterized SQL WHERE clauses for the database
// package. Every value is bound through a placeholder; only column names,
// which come from code, are interpolated.
package query
