// Package helpers provides test utility functions for the SlimSquad API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(user)
//	expired := jwtHelper.GenerateExpiredToken(user)
//
// # Request Building
//
// Construct authenticated API requests:
//
//	req := helpers.NewRequest(t, "POST", "/api/challenges").
//	    WithBody(body).
//	    WithAuth(jwtHelper, user).
//	    Build()
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertStatus(t, resp, http.StatusCreated)
//	helpers.AssertValidationError(t, resp, "email")
//	helpers.AssertRecordExists(t, db, "challenge", id)
package helpers
