// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, token lifetimes, rate
// limiting, engagement (exp/level) tuning, object storage, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stagemate/go-community-backend/internal/sysutil"
)

// DefaultMaxPageSize caps the per-page item count accepted from clients on
// listing endpoints.
const DefaultMaxPageSize = 50

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-community-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// JWTConfig defines signing material and lifetimes for the three token kinds
// issued by the auth layer (access, refresh, registration).
type JWTConfig struct {
	Secret          string        // JWT_SECRET (required)
	AccessTTL       time.Duration // e.g. 30m
	RefreshTTL      time.Duration // e.g. 336h (14 days)
	RegistrationTTL time.Duration // e.g. 10m
}

// AutoBanConfig tunes the IP-level auto-ban gate backed by the shared
// expiring store. A client exceeding MaxRequests within Window is banned
// for BanDuration.
type AutoBanConfig struct {
	Window      time.Duration // counting window, e.g. 60s
	MaxRequests int64         // allowed requests per window, e.g. 100
	BanDuration time.Duration // ban length once tripped, e.g. 1h
}

// ExpConfig tunes the experience/level progression mechanic. LevelThreshold
// is the exp cost of one level and does not change with level.
type ExpConfig struct {
	DecayFactor    float64 // per-level diminishing-return factor, e.g. 0.1
	LevelThreshold int     // exp per level, fixed at 100
	PostBaseExp    int     // base exp for writing a post
	CommentBaseExp int     // base exp for writing a comment
}

// RedisConfig locates the expiring key-value store used by the auto-ban gate.
type RedisConfig struct {
	Addr     string // host:port
	Username string
	Password string
	DB       int
}

// S3Config defines the bucket used for presigned image uploads.
type S3Config struct {
	Bucket        string
	Region        string
	UploadPrefix  string        // object key prefix, e.g. "uploads/"
	PresignExpiry time.Duration // presigned URL lifetime
	PublicBaseURL string        // optional CDN/base URL override for file links
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath string // SQLite path

	// Auth
	JWT JWTConfig

	// Abuse control
	AutoBan AutoBanConfig

	// Login burst smoothing (process-local token bucket on auth routes)
	LoginRPS   float64 // tokens per second (>= 0)
	LoginBurst int     // bucket size (>= 1)

	// Engagement
	Exp ExpConfig

	// Shared expiring store
	Redis RedisConfig

	// Uploads
	S3 S3Config

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		DBPath: getenv("DB_PATH", "app.db"),

		// Auth
		JWT: JWTConfig{
			Secret:          getenv("JWT_SECRET", ""),
			AccessTTL:       getdur("JWT_ACCESS_TTL", 30*time.Minute),
			RefreshTTL:      getdur("JWT_REFRESH_TTL", 14*24*time.Hour),
			RegistrationTTL: getdur("JWT_REGISTRATION_TTL", 10*time.Minute),
		},

		// Abuse control
		AutoBan: AutoBanConfig{
			Window:      getdur("AUTOBAN_WINDOW", 60*time.Second),
			MaxRequests: int64(getint("AUTOBAN_MAX_REQUESTS", 100)),
			BanDuration: getdur("AUTOBAN_DURATION", time.Hour),
		},

		// Login burst smoothing
		LoginRPS:   getfloat("LOGIN_RPS", 1.0),
		LoginBurst: getint("LOGIN_BURST", 5),

		// Engagement
		Exp: ExpConfig{
			DecayFactor:    getfloat("EXP_DECAY_FACTOR", 0.1),
			LevelThreshold: getint("EXP_LEVEL_THRESHOLD", 100),
			PostBaseExp:    getint("EXP_BASE_POST", 50),
			CommentBaseExp: getint("EXP_BASE_COMMENT", 10),
		},

		// Shared expiring store
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Username: getenv("REDIS_USERNAME", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},

		// Uploads
		S3: S3Config{
			Bucket:        getenv("S3_UPLOAD_BUCKET", ""),
			Region:        getenv("AWS_REGION", ""),
			UploadPrefix:  getenv("S3_UPLOAD_PREFIX", "uploads/"),
			PresignExpiry: getdur("S3_PRESIGN_EXPIRES", 5*time.Minute),
			PublicBaseURL: getenv("S3_PUBLIC_BASE_URL", ""),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-community-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return cfg, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 || cfg.JWT.RegistrationTTL <= 0 {
		return cfg, errors.New("token TTLs must be positive durations")
	}
	if cfg.AutoBan.Window <= 0 || cfg.AutoBan.BanDuration <= 0 {
		return cfg, errors.New("AUTOBAN_WINDOW and AUTOBAN_DURATION must be > 0")
	}
	if cfg.AutoBan.MaxRequests < 1 {
		return cfg, errors.New("AUTOBAN_MAX_REQUESTS must be >= 1")
	}
	if cfg.LoginRPS < 0 {
		return cfg, errors.New("LOGIN_RPS must be >= 0")
	}
	if cfg.LoginBurst < 1 {
		return cfg, errors.New("LOGIN_BURST must be >= 1")
	}
	if cfg.Exp.DecayFactor < 0 {
		return cfg, errors.New("EXP_DECAY_FACTOR must be >= 0")
	}
	if cfg.Exp.LevelThreshold <= 0 {
		return cfg, errors.New("EXP_LEVEL_THRESHOLD must be > 0")
	}
	if cfg.Exp.PostBaseExp <= 0 || cfg.Exp.CommentBaseExp <= 0 {
		return cfg, errors.New("base exp values must be > 0")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return cfg, errors.New("REDIS_ADDR must not be empty")
	}
	if cfg.S3.PresignExpiry <= 0 {
		return cfg, errors.New("S3_PRESIGN_EXPIRES must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- env helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if sysutil.IsTruthy(v) {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
