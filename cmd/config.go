package cmd

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort              = "8080"
	defaultDBDriver          = "memory"
	defaultDatabaseURL       = "user=postgres password=password dbname=quill host=localhost port=5432 sslmode=disable"
	defaultSQLitePath        = "quill.db"
	defaultAnthropicModel    = "claude-3-5-sonnet-latest"
	defaultGenerationTimeout = 90 * time.Second
	defaultGenerationRetries = 2
	defaultGenerationRPS     = 2.0
	defaultUploadDir         = "_uploads"
	defaultMaxUploadMB       = 25
	defaultCoverFetchTimeout = 15 * time.Second
	defaultCoverFetchRetries = 2
	defaultPrintTimeout      = 60 * time.Second
	defaultGenerateRateLimit = 20 // per IP per minute
	defaultAuthRateLimit     = 10 // per IP per minute
)

type config struct {
	port              string
	dbDriver          string
	databaseURL       string
	jwtSecret         string
	tokenTTL          time.Duration
	authRequired      bool
	secureCookies     bool
	anthropicAPIKey   string
	anthropicModel    string
	hordeAPIKey       string
	generationTimeout time.Duration
	generationRetries int
	generationRPS     float64
	uploadDir         string
	maxUploadMB       int
	chromePath        string
	printEnabled      bool
	coverFetchTimeout time.Duration
	coverFetchRetries int
}

func loadConfig() config {
	cfg := config{
		port:              envString("PORT", defaultPort),
		dbDriver:          strings.ToLower(envString("DB_DRIVER", defaultDBDriver)),
		databaseURL:       os.Getenv("DB_CONNECTION_STRING"),
		jwtSecret:         os.Getenv("JWT_SECRET"),
		tokenTTL:          envDuration("TOKEN_TTL", 24*time.Hour),
		authRequired:      envBool("AUTH_REQUIRED", true),
		secureCookies:     envBool("SECURE_COOKIES", false),
		anthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		anthropicModel:    envString("ANTHROPIC_MODEL", defaultAnthropicModel),
		hordeAPIKey:       os.Getenv("HORDE_API_KEY"),
		generationTimeout: envDuration("GENERATION_TIMEOUT", defaultGenerationTimeout),
		generationRetries: envInt("GENERATION_RETRIES", defaultGenerationRetries),
		generationRPS:     envFloat("GENERATION_RPS", defaultGenerationRPS),
		uploadDir:         envString("UPLOAD_DIR", defaultUploadDir),
		maxUploadMB:       envInt("MAX_UPLOAD_MB", defaultMaxUploadMB),
		chromePath:        os.Getenv("CHROME_PATH"),
		printEnabled:      envBool("PRINT_ENABLED", true),
		coverFetchTimeout: envDuration("COVER_FETCH_TIMEOUT", defaultCoverFetchTimeout),
		coverFetchRetries: envInt("COVER_FETCH_RETRIES", defaultCoverFetchRetries),
	}

	if cfg.anthropicAPIKey == "" {
		log.Println("WARNING: ANTHROPIC_API_KEY not set. Text generation endpoints will return errors.")
	}
	if cfg.hordeAPIKey == "" {
		log.Println("WARNING: HORDE_API_KEY not set. Cover generation will use the anonymous queue.")
	}
	if !cfg.authRequired {
		log.Println("WARNING: AUTH_REQUIRED=false. Book and generation routes are open to anonymous callers.")
	}
	return cfg
}

// resolveDatabaseURL fills in the driver's default DSN when none is configured.
func (c *config) resolveDatabaseURL() {
	if c.databaseURL != "" {
		return
	}
	switch c.dbDriver {
	case "postgres":
		c.databaseURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	case "sqlite":
		c.databaseURL = defaultSQLitePath
		log.Printf("WARNING: DB_CONNECTION_STRING not set, using SQLite file %s.", defaultSQLitePath)
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARNING: %s=%q is not an integer, using %d.", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a number, using %g.", key, v, fallback)
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a boolean, using %t.", key, v, fallback)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("WARNING: %s=%q is not a valid duration, using %s.", key, v, fallback)
		return fallback
	}
	return d
}
