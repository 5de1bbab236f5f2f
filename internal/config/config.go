package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints and durations
// for limits and timeouts.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	TokenTTLDays int    // access token time-to-live in days

	OTPTTL     time.Duration // how long an issued OTP stays valid
	BcryptCost int           // bcrypt cost for hashing OTP codes at rest

	UploadDir      string // directory for stored query images
	MaxUploadFiles int    // maximum images per query submission
	MaxUploadBytes int64  // maximum size of a single image in bytes
	AllowGIF       bool   // permissive variant: also accept image/gif uploads
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Limits and paths
// have working defaults so a development setup only needs the database
// and JWT variables.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),      // environment (dev/test/prod)
		Port:         must("APP_PORT"),     // port to bind the HTTP server
		DBUser:       must("DB_USER"),      // database user
		DBPass:       os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:       must("DB_HOST"),      // database host
		DBPort:       must("DB_PORT"),      // database port
		DBName:       must("DB_NAME"),      // database name
		JWTSecret:    must("JWT_SECRET"),   // secret used for signing JWTs
		TokenTTLDays: envInt("TOKEN_TTL_DAYS", 7),

		OTPTTL:     envDur("OTP_TTL", 5*time.Minute),
		BcryptCost: envInt("BCRYPT_COST", 10),

		UploadDir:      envStr("UPLOAD_DIR", "uploads"),
		MaxUploadFiles: envInt("MAX_UPLOAD_FILES", 5),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 5<<20)),
		AllowGIF:       envBool("ALLOW_GIF", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envStr returns the value of key or the default when unset.
func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envInt returns the integer value of key or the default when unset or
// unparsable.
func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

// envBool interprets common truthy/falsy spellings; anything else keeps
// the default.
func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

// envDur parses a time.Duration value (e.g. "5m", "20s") or keeps the
// default.
func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
