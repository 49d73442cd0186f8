// Package handler provides HTTP request handlers for the SlimSquad API.
//
// The handler package contains all HTTP endpoint implementations organized by
// domain. Each handler struct encapsulates the service it needs to serve
// requests for a feature area (authentication, challenges, weight logs).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the backing service
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Most handlers require authentication via JWT tokens. The auth middleware
// extracts the user ID and makes it available via middleware.GetUserID.
//
// # Example Usage
//
//	challengeHandler := handler.NewChallengeHandler(challengeService)
//	mux.Handle("POST /api/challenges", authMiddleware(http.HandlerFunc(challengeHandler.Create)))
package handler
