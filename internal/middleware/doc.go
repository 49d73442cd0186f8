// Package middleware provides HTTP middleware for the SlimSquad API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - AdminAuth: Auth plus admin role enforcement
//   - RateLimit: Request rate limiting per user/IP
//   - Idempotency: Idempotent request handling
//   - ChallengeAccess: Challenge participant verification
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information:
//
//	authed := middleware.Auth(authService)
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	mux.Handle("/api/", middleware.RateLimit(limiter)(apiHandler))
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetChallengeID(ctx): Returns challenge ID from path
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
