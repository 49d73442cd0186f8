// Package jwt provides JSON Web Token utilities for the SlimSquad API.
//
// The jwt package handles access token signing, validation, and claims
// extraction for authentication. Tokens are RS256-signed JWTs; the signing
// key lives on the API server and the public key may be distributed to
// validation-only consumers.
//
// # Signing
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    PublicKeyPath:  "./keys/public.pem",
//	    Issuer:         "slimsquad.app",
//	    ExpirationMins: 15,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: user.ID, Email: user.Email})
//
// # Validation
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid, expired, or tampered token
//	}
//	userID := claims.UserID
//
// # Claims
//
// Standard registered claims plus custom claims:
//
//	type Claims struct {
//	    Subject   string // user record ID
//	    ExpiresAt int64
//	    UserID    string
//	    Email     string
//	    Name      string
//	    Role      string // user, admin
//	}
package jwt
