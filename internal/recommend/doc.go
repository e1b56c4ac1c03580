// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package recommend implements user-based collaborative filtering over
// implicit shopping interactions.
//
// # Pipeline
//
// Training runs in three steps:
//
//  1. Aggregate folds raw events (view, add_to_cart, purchase) into a sparse
//     user-by-item Matrix. Each kind maps to an ordinal weight (1, 2, 3) and
//     repeated (user, item) pairs keep the maximum.
//  2. BuildModel indexes the matrix rows for brute-force cosine kNN. Row
//     magnitudes are computed once.
//  3. Engine publishes the model through an atomic pointer so readers never
//     observe a partial rebuild.
//
// # Scoring
//
// For a user, the model takes the nearest rows (the user's own row first),
// drops the first, and scores every item the user has not touched by the
// mean weight the neighbors gave it. Zero cells count toward the mean.
// Items scoring above zero are returned best first; ties keep column order.
//
// A request that cannot be answered returns a Result whose Outcome says
// why. Outcomes are not errors.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Train(ctx); err != nil {
//	    return err
//	}
//	res := engine.Recommend(ctx, "user-42", 5)
//	if !res.OK() {
//	    log.Println(res.Reason())
//	}
//
// # Thread Safety
//
// Recommend is lock-free. Train holds an exclusive lock; a concurrent Train
// call fails fast with ErrTrainingInProgress.
package recommend
