package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Connection defaults of the CI database service container.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
	StandardCIPort     = "5432"
	StandardCIDatabase = "wildlife_test"
	StandardCIOptions  = "sslmode=disable"
)

// GetTestDatabaseURL returns the integration test database URL from
// DATABASE_URL, WILDLIFE_TEST_DB_URL or WILDLIFE_DATABASE_URL, in that order.
// Under CI the URL is normalized to the service container defaults. An empty
// result means no database is available.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(
		[]string{EnvDatabaseURL, EnvWildlifeTestDBURL, EnvWildlifeDatabaseURL}, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := standardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Error("failed to standardize database URL",
				slog.String("error", err.Error()),
				slog.String("url", MaskSensitiveValue(dbURL)),
			)
		}
		return dbURL
	}
	if standardized != dbURL && logger != nil {
		logger.Info("standardized database URL for CI",
			slog.String("original", MaskSensitiveValue(dbURL)),
			slog.String("standardized", MaskSensitiveValue(standardized)),
		)
	}
	return standardized
}

// standardizeDatabaseURL applies the CI credentials and fills in a missing
// port, database name or query string. Non-postgres URLs pass through.
func standardizeDatabaseURL(dbURL string) (string, error) {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return dbURL, nil
	}

	out := *parsed
	out.User = url.UserPassword(StandardCIUser, StandardCIPassword)

	host := parsed.Hostname()
	if parsed.Port() == "" && (host == "" || host == "localhost" || host == "127.0.0.1") {
		if host == "" {
			host = "localhost"
		}
		out.Host = host + ":" + StandardCIPort
	}
	if strings.TrimPrefix(parsed.Path, "/") == "" {
		out.Path = "/" + StandardCIDatabase
	}
	if parsed.RawQuery == "" {
		out.RawQuery = StandardCIOptions
	}
	return out.String(), nil
}
