package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers and secrets,
// ints for durations and costs.  Two separate JWT secrets exist because
// resident and admin sessions are signed independently: a token minted for
// one role can never verify as the other.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign resident session tokens
    JWTAdminSecret string // secret used to sign admin session tokens
    SessionTTLDays int    // session cookie lifetime in days
    BcryptCost     int    // bcrypt cost for password hashing
    ClientURL      string // allowed browser origin for CORS and websocket upgrades
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // signing secret for resident sessions
        JWTAdminSecret: must("JWT_ADMIN_SECRET"),    // signing secret for admin sessions
        SessionTTLDays: mustInt("SESSION_TTL_DAYS"), // session lifetime in days (7 in deployments)
        BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor
        ClientURL:      getenv("CLIENT_URL", "http://localhost:5173"), // SPA origin
    }
}

// IsProd reports whether the service runs with production cookie settings
// (Secure, SameSite=None).  Anything other than "prod" keeps the laxer
// dev defaults so the SPA on localhost can authenticate.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
