// Package config manages application configuration for the SlimSquad API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: token signing and refresh settings
//   - JobsConfig: background job intervals
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT                 - HTTP server port (default: 8080)
//	SERVER_ENV                  - development, production, or test
//	DB_HOST / DB_PORT           - SurrealDB endpoint
//	DB_USER / DB_PASSWORD       - Database credentials
//	DB_NAMESPACE / DB_DATABASE  - Namespace and database names
//	JWT_PRIVATE_KEY_PATH        - RS256 private key for signing
//	JWT_PUBLIC_KEY_PATH         - RS256 public key for validation
//	JWT_EXPIRATION_MINS         - Access token lifetime in minutes
//	JWT_REFRESH_DAYS            - Refresh token lifetime in days
//	JOBS_STATUS_SWEEP_INTERVAL  - Challenge status sweep interval
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
