// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package api exposes query interpretation, product lookup, recommendations
and event capture over HTTP using the chi router.

# Endpoints

	POST /api/v1/parse                  interpret a phrase and search the index
	GET  /api/v1/products               up to 100 products
	GET  /api/v1/products/latest        newest products (?limit=1..100, default 10)
	GET  /api/v1/products/{id}          one product, 404 when absent
	POST /api/v1/recommendations        {user_id, num_recommendations}
	POST /api/v1/events                 record one interaction (202)
	POST /api/v1/admin/retrain          rebuild the model (admin JWT)
	GET  /api/v1/admin/model            training status (admin JWT)
	GET  /api/v1/admin/performance      recent latency per route (admin JWT)
	GET  /api/v1/health[/live|/ready]   health and probes
	GET  /metrics                       Prometheus

# Response Envelope

Every endpoint writes APIResponse:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

# Error Mapping

  - validation failures: 400 VALIDATION_FAILED with the offending field
  - docindex.ErrNotFound: 404
  - docindex.ErrUnavailable or ErrRejected: 502 EXTERNAL_SERVICE_FAILED
  - recommendation model not built: 503
  - other recommendation outcomes: 404 NO_RECOMMENDATIONS with the reason
  - retrain while training: 409

Recommendation details are fetched from the index after ranking. If the
index is down the ids are still returned, with an empty details list.

# Middleware

Global: request id, real IP, panic recovery, CORS, Prometheus, the
performance monitor and gzip. The /api/v1 group adds per-IP rate limiting
and security headers; /admin adds the JWT admin check.
*/
package api
