package middleware

import (
	"context"
	"net/http"

	"github.com/slimsquad/api/internal/model"
)

// ChallengeMembershipChecker defines the interface for checking challenge membership
type ChallengeMembershipChecker interface {
	IsParticipant(ctx context.Context, userID, challengeID string) (bool, error)
	IsVisible(ctx context.Context, userID, challengeID string) (bool, error)
}

// ChallengeIDKey is the context key for challenge ID
const ChallengeIDKey contextKey = "challengeID"

// GetChallengeID extracts the challenge ID from context
func GetChallengeID(ctx context.Context) string {
	if id, ok := ctx.Value(ChallengeIDKey).(string); ok {
		return id
	}
	return ""
}

// ChallengeAccess returns a middleware that restricts a route to challenge
// participants. It expects the challenge ID in the {challengeId} path
// parameter and must be applied inside Auth.
func ChallengeAccess(checker ChallengeMembershipChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			challengeID := r.PathValue("challengeId")
			if challengeID == "" {
				model.NewBadRequestError("invalid challenge ID").WriteJSON(w)
				return
			}

			isParticipant, err := checker.IsParticipant(r.Context(), userID, challengeID)
			if err != nil {
				// Return 404 to not leak challenge existence
				model.NewNotFoundError("challenge").WriteJSON(w)
				return
			}

			if !isParticipant {
				visible, err := checker.IsVisible(r.Context(), userID, challengeID)
				if err != nil || !visible {
					// Hidden challenges read as absent to outsiders
					model.NewNotFoundError("challenge").WriteJSON(w)
					return
				}
				model.NewForbiddenError("challenge participants only").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), ChallengeIDKey, challengeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
