// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/recommend"
	"github.com/tomtom215/shopsense/internal/validation"
)

// Message metadata keys.
const (
	MetadataCorrelationID   = "correlation_id"
	MetadataUserID          = "user_id"
	MetadataInteractionType = "interaction_type"
)

// EncodeInteraction validates ev and encodes it as the JSON wire payload.
func EncodeInteraction(ev *recommend.Event) ([]byte, error) {
	if err := validateInteraction(ev); err != nil {
		return nil, err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DecodeInteraction decodes and validates a wire payload. A missing
// timestamp stays zero; the store fills it in on insert.
func DecodeInteraction(data []byte) (recommend.Event, error) {
	var ev recommend.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return recommend.Event{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := validateInteraction(&ev); err != nil {
		return recommend.Event{}, err
	}
	return ev, nil
}

// NewInteractionMessage wraps ev in a Watermill message with a fresh UUID.
// The UUID becomes the stored event id, so redeliveries deduplicate.
func NewInteractionMessage(ctx context.Context, ev *recommend.Event) (*message.Message, error) {
	data, err := EncodeInteraction(ev)
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataUserID, ev.UserID)
	msg.Metadata.Set(MetadataInteractionType, string(ev.Kind))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	return msg, nil
}

func validateInteraction(ev *recommend.Event) error {
	if verr := validation.ValidateStruct(ev); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, verr)
	}
	return nil
}
