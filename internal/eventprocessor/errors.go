// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import "errors"

var (
	// ErrNATSNotEnabled is returned by InitIngest in builds without the
	// nats tag.
	ErrNATSNotEnabled = errors.New("NATS event processing not enabled (build with -tags nats)")

	ErrPublisherClosed = errors.New("publisher is closed")
	ErrInvalidConfig   = errors.New("invalid ingest configuration")

	// ErrInvalidPayload marks messages that are acked and dropped
	// instead of retried.
	ErrInvalidPayload = errors.New("invalid interaction payload")
)
