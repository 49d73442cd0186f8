// Package fixtures provides test data factories for the SlimSquad API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(tdb.DB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	user := f.CreateUser(t)                       // Default user
//	challenge := f.CreateChallenge(t, user)       // Challenge created by user
//	f.AddParticipant(t, otherUser, challenge, 90) // Add participant
//
// # Customization
//
// Use option functions for customization:
//
//	user := f.CreateUser(t, func(o *fixtures.UserOpts) { o.Email = "custom@example.com" })
//	challenge := f.CreateChallenge(t, user, func(o *fixtures.ChallengeOpts) {
//	    o.Visibility = model.ChallengeVisibilityPublic
//	})
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateUser(t) // user_abc123@test.local
//	user2 := f.CreateUser(t) // user_def456@test.local
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
