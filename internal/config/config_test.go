package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")

	// Auth
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JWT_REFRESH_TTL", "168h")
	t.Setenv("JWT_REGISTRATION_TTL", "5m")

	// Abuse control
	t.Setenv("AUTOBAN_WINDOW", "30s")
	t.Setenv("AUTOBAN_MAX_REQUESTS", "200")
	t.Setenv("AUTOBAN_DURATION", "2h")

	// Login smoothing (use invalids for parse to fall back to defaults)
	t.Setenv("LOGIN_RPS", "x")      // -> default 1.0
	t.Setenv("LOGIN_BURST", "nope") // -> default 5

	// Engagement
	t.Setenv("EXP_DECAY_FACTOR", "0.2")
	t.Setenv("EXP_LEVEL_THRESHOLD", "100")
	t.Setenv("EXP_BASE_POST", "60")
	t.Setenv("EXP_BASE_COMMENT", "15")

	// Store / uploads
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("S3_UPLOAD_BUCKET", "media")
	t.Setenv("AWS_REGION", "ap-northeast-2")
	t.Setenv("S3_PRESIGN_EXPIRES", "10m")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs fields unexpected: %+v", cfg)
	}

	// Auth
	if cfg.JWT.Secret != "super-secret" ||
		cfg.JWT.AccessTTL != 15*time.Minute ||
		cfg.JWT.RefreshTTL != 168*time.Hour ||
		cfg.JWT.RegistrationTTL != 5*time.Minute {
		t.Fatalf("jwt fields unexpected: %+v", cfg.JWT)
	}

	// Abuse control
	if cfg.AutoBan.Window != 30*time.Second || cfg.AutoBan.MaxRequests != 200 || cfg.AutoBan.BanDuration != 2*time.Hour {
		t.Fatalf("autoban fields unexpected: %+v", cfg.AutoBan)
	}
	if cfg.LoginRPS != 1.0 || cfg.LoginBurst != 5 {
		t.Fatalf("login limiter parse fallback: rps=%v burst=%d", cfg.LoginRPS, cfg.LoginBurst)
	}

	// Engagement
	if cfg.Exp.DecayFactor != 0.2 || cfg.Exp.LevelThreshold != 100 || cfg.Exp.PostBaseExp != 60 || cfg.Exp.CommentBaseExp != 15 {
		t.Fatalf("exp fields unexpected: %+v", cfg.Exp)
	}

	// Store / uploads
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("redis addr: %q", cfg.Redis.Addr)
	}
	if cfg.S3.Bucket != "media" || cfg.S3.Region != "ap-northeast-2" || cfg.S3.PresignExpiry != 10*time.Minute {
		t.Fatalf("s3 fields unexpected: %+v", cfg.S3)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security fields unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure ||
		cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel fields unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"negative timeout", "READ_TIMEOUT", "-1s", "timeouts"},
		{"zero window", "AUTOBAN_WINDOW", "0s", "AUTOBAN_WINDOW"},
		{"zero max requests", "AUTOBAN_MAX_REQUESTS", "0", "AUTOBAN_MAX_REQUESTS"},
		{"negative login rps", "LOGIN_RPS", "-1", "LOGIN_RPS"},
		{"zero threshold", "EXP_LEVEL_THRESHOLD", "0", "EXP_LEVEL_THRESHOLD"},
		{"zero base exp", "EXP_BASE_POST", "-5", "base exp"},
		{"sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s")
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func Test_normalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api":    "/api",
		"/api/":   "/api",
		"api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func Test_getbool(t *testing.T) {
	for _, v := range []string{"On", "1", "true", "YES", " y "} {
		t.Setenv("FLAG", v)
		if !getbool("FLAG", false) {
			t.Fatalf("getbool(%q) should be true", v)
		}
	}
	t.Setenv("FLAG", "off")
	if getbool("FLAG", true) {
		t.Fatal("expected falsy")
	}
	t.Setenv("FLAG", "maybe")
	if !getbool("FLAG", true) {
		t.Fatal("unparseable should fall back to default")
	}
}
