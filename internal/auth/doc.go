// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package auth issues and validates the HS256 bearer tokens that protect the
admin endpoints.

Tokens carry a subject and a role. Only RoleAdmin may call the admin
surface; every other endpoint is public.

# Usage

	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	authn := auth.NewAuthenticator(manager)

	claims, err := authn.AuthenticateAdmin(r)
	switch {
	case errors.Is(err, auth.ErrForbidden):
	    // 403
	case err != nil:
	    // 401
	}

Operators mint tokens with GenerateToken, exposed by the server binary's
-issue-admin-token flag.

# Security

  - Only HS256 is accepted, which rules out "none" and RS/HS confusion.
  - Secrets shorter than 32 characters are rejected.
  - When security.jwt_issuer is set, tokens from other issuers fail.
*/
package auth
