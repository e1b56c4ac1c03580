// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package recommend

import (
	"fmt"
	"time"
)

// InteractionKind is the type of a user-product interaction.
type InteractionKind string

// Interaction kinds, in increasing order of intent.
const (
	KindView      InteractionKind = "view"
	KindAddToCart InteractionKind = "add_to_cart"
	KindPurchase  InteractionKind = "purchase"
)

// Weight returns the ordinal weight of k: view=1, add_to_cart=2,
// purchase=3. Unknown kinds weigh 0 and are dropped by Aggregate.
func (k InteractionKind) Weight() float32 {
	switch k {
	case KindView:
		return 1
	case KindAddToCart:
		return 2
	case KindPurchase:
		return 3
	default:
		return 0
	}
}

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	return k.Weight() > 0
}

// Event is one raw interaction.
type Event struct {
	UserID    string          `json:"userId" validate:"required,max=128"`
	ProductID string          `json:"productId" validate:"required,max=128"`
	Kind      InteractionKind `json:"interactionType" validate:"required,oneof=view add_to_cart purchase"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// Outcome explains a recommendation result. Only OutcomeOK carries items.
type Outcome int

// Recommendation outcomes.
const (
	OutcomeOK Outcome = iota
	OutcomeModelUnbuilt
	OutcomeUserNotFound
	OutcomeNoSimilarUsers
	OutcomeNoNewItems
	OutcomeNoPositiveScores
)

// String returns the metric label for o.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeModelUnbuilt:
		return "model_unbuilt"
	case OutcomeUserNotFound:
		return "user_not_found"
	case OutcomeNoSimilarUsers:
		return "no_similar_users"
	case OutcomeNoNewItems:
		return "no_new_items"
	case OutcomeNoPositiveScores:
		return "no_positive_scores"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the answer to one recommendation request.
type Result struct {
	UserID  string
	Items   []string
	Outcome Outcome
}

// OK reports whether the result carries recommendations.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Reason describes why a result has no items. It is empty for OutcomeOK.
func (r Result) Reason() string {
	switch r.Outcome {
	case OutcomeOK:
		return ""
	case OutcomeModelUnbuilt:
		return "Failed to initialize recommendation model. No recommendations can be made."
	case OutcomeUserNotFound:
		return fmt.Sprintf("User '%s' not found in the interaction dataset. Cannot make personalized recommendations.", r.UserID)
	case OutcomeNoSimilarUsers:
		return "No similar users found to make recommendations for this user."
	case OutcomeNoNewItems:
		return fmt.Sprintf("User '%s' has interacted with all available products, or no new un-interacted products can be recommended.", r.UserID)
	case OutcomeNoPositiveScores:
		return "Could not find suitable recommendations based on similar users' interactions."
	default:
		return r.Outcome.String()
	}
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// ModelBuilt is false until the first successful training run.
	ModelBuilt bool `json:"model_built"`

	// ModelVersion increments on every successful training run.
	ModelVersion int `json:"model_version"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// EventCount is the number of raw events read by the last run.
	EventCount int `json:"event_count"`

	// UserCount and ItemCount are the dimensions of the current matrix.
	UserCount int `json:"user_count"`
	ItemCount int `json:"item_count"`
}
