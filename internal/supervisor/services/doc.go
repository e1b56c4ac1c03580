// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package services adapts Shopsense components to suture.Service.

  - HTTPServerService runs the API. It builds a new *http.Server on every
    start and shuts it down gracefully when its context ends.
  - RetrainService retrains the recommendation model on startup and on a
    ticker. ErrTrainingInProgress from an admin-triggered run is skipped
    quietly.
  - RebuildService republishes the query interpreter when the vocabulary
    overrides file changes, debouncing bursts of file events.

Event ingestion needs no wrapper: eventprocessor.Ingest implements
suture.Service itself.

Every service returns ctx.Err() on shutdown and an error on failure, so
the supervisor restarts it with backoff.
*/
package services
