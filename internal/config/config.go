package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes mode values
)

// Auth modes supported by the service.  The mode decides how much of the
// account machinery is active:
//
//	ModeNone     – no accounts at all, every chat route is open.
//	ModeOpen     – registration immediately grants a subscription window.
//	ModeVerified – registration requires an emailed one-time code before
//	               the subscription window is granted.
const (
	ModeNone     = "none"
	ModeOpen     = "open"
	ModeVerified = "verified"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	AuthMode     string // none | open | verified
	JWTSecret    string // secret used to sign JWTs (required unless AuthMode is none)
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	OpenAIAPIKey string // API key for the embedding / chat model provider
	ChatModel    string // chat completion model name
	EmbedModel   string // embedding model name

	AccountDriver string // account store backend: "file" or "mysql"
	AccountFile   string // path to the JSON account file (file driver)
	DBUser        string // database username (mysql driver)
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name

	SubscriptionDays int // length of the subscription window granted on activation
	ReminderDays     int // remaining-days threshold below which a reminder mail is sent
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The LLM provider key
// is deliberately checked here: a missing key must fail startup, never a
// later indexing request.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		AuthMode:     authMode(),
		OpenAIAPIKey: must("OPENAI_API_KEY"),
		ChatModel:    envStr("CHAT_MODEL", "gpt-4o-mini"),
		EmbedModel:   envStr("EMBED_MODEL", "text-embedding-3-small"),

		AccountDriver: envStr("ACCOUNT_STORE_DRIVER", "file"),
		AccountFile:   envStr("ACCOUNT_FILE", "data/accounts.json"),

		SubscriptionDays: envInt("SUBSCRIPTION_DAYS", 365),
		ReminderDays:     envInt("REMINDER_DAYS", 10),
	}
	if cfg.AuthMode != ModeNone {
		cfg.JWTSecret = must("JWT_SECRET")
		cfg.AccessTTLMin = mustInt("ACCESS_TOKEN_TTL_MIN")
		cfg.BcryptCost = mustInt("BCRYPT_COST")
	}
	if cfg.AccountDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// authMode validates the AUTH_MODE variable.  An unset variable defaults to
// the verified flow; an unknown value is a fatal configuration error rather
// than a silent fallback.
func authMode() string {
	m := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	switch m {
	case "":
		return ModeVerified
	case ModeNone, ModeOpen, ModeVerified:
		return m
	}
	log.Fatalf("invalid AUTH_MODE: %q (want none, open or verified)", m)
	return ""
}

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
