// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package query turns free-text product searches into structured predicates.

Parser runs five independent passes over each query:

 1. Price: every 2-5 digit run, optionally after "$". One value caps the
    range; two or more span from the smallest to the largest.
 2. Brand: weighted fuzzy ratio of the normalized query against each brand,
    stopping early above 90 and accepting at 80 or better.
 3. Category: the query is embedded once and matched by cosine similarity
    against every category term; the best match strictly above 0.4 fills
    exactly one of subCategory, articleType or masterCategory.
 4. Colors and seasons: every vocabulary entry contained in the lower-cased
    query.
 5. Usage: the first usage tag contained in the lower-cased query.

All thresholds come from Config. Parse never fails: a missing vocabulary
list or a failed embedding call only leaves fields unset.

PassThrough is the degraded interpreter selected at startup when the
semantic parser cannot be built. Live publishes the interpreter currently
in service so rebuilds swap it atomically, and Cached memoizes results in a
cache.Store.
*/
package query
