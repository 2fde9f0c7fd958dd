package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	t.Setenv("DB_USER", "innova")
	t.Setenv("DB_PASSWORD", "innova")
	t.Setenv("DB_NAME", "innovatube")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("ENVIRONMENT", "development")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTokenLifespan)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 0.5, cfg.RecaptchaMinScore)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingJWTSecretFailsFast(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidLifespan(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "tomorrow")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRES_IN")
}

func TestLoad_CustomLifespanAndOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "2h30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("FRONTEND_URL", "https://innovatube.example/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Minute, cfg.JWTTokenLifespan)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://innovatube.example", cfg.FrontendURL)
}

func TestLoad_YouTubeCache(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.YouTubeCacheTTL)

	t.Setenv("YOUTUBE_CACHE_TTL", "0s")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTUBE_CACHE_TTL")

	t.Setenv("YOUTUBE_CACHE_TTL", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate_ProductionRequiresRecaptchaAndMail(t *testing.T) {
	cfg := &AppConfig{
		Environment:      EnvProduction,
		JWTSecret:        "s",
		JWTTokenLifespan: time.Hour,
		DatabaseDriver:   DriverPostgres,
		DBUser:           "u",
		DBPassword:       "p",
		DBName:           "n",
		YouTubeAPIKey:    "k",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECAPTCHA_SECRET_KEY")
	assert.Contains(t, err.Error(), "AWS_SES_EMAIL_SENDER")

	cfg.RecaptchaSecretKey = "secret"
	cfg.AWSRegion = "us-east-1"
	cfg.AWSSESEmailSender = "noreply@innovatube.example"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MemoryDriverRejectedInProduction(t *testing.T) {
	cfg := &AppConfig{
		Environment:        EnvProduction,
		JWTSecret:          "s",
		JWTTokenLifespan:   time.Hour,
		DatabaseDriver:     DriverMemory,
		YouTubeAPIKey:      "k",
		RecaptchaSecretKey: "r",
		AWSRegion:          "us-east-1",
		AWSSESEmailSender:  "a@b.c",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
}

func TestLoadFeatureToggles(t *testing.T) {
	toggles := loadFeatureToggles([]string{
		"FEATURE_video_statistics=true",
		"FEATURE_BROKEN=maybe",
		"PATH=/usr/bin",
		"FEATURE_OFF=false",
	})
	assert.Equal(t, map[string]bool{"VIDEO_STATISTICS": true, "OFF": false}, toggles)
}

func TestDSN(t *testing.T) {
	cfg := &AppConfig{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", cfg.DSN())
}
