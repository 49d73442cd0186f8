// Package jobs implements background job processing for the SlimSquad API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
//   - ChallengeStatusProcessor: rolls challenge statuses forward from their
//     dates and purges dead refresh tokens
//
// # Lifecycle
//
// Each job exposes Start and Stop. Start launches the job's loop in its own
// goroutine; Stop blocks until the loop has drained.
//
//	processor := jobs.NewChallengeStatusProcessor(challengeRepo, tokenRepo, 5*time.Minute)
//	processor.Start()
//	defer processor.Stop()
package jobs
