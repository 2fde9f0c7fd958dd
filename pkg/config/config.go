package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// AppConfig detém a configuração da aplicação.
// É construída uma única vez em Load e passada aos construtores; não deve ser alterada depois.
type AppConfig struct {
	Port        string
	Environment string // "development", "staging", "production"
	LogLevel    string
	AppVersion  string
	FrontendURL string

	JWTSecret        string
	JWTTokenLifespan time.Duration

	DatabaseDriver string // "postgres" ou "memory"
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	RunMigrations  bool

	YouTubeAPIKey   string
	RedisURL        string // opcional; habilita o cache de buscas do YouTube
	YouTubeCacheTTL time.Duration

	RecaptchaSecretKey string
	RecaptchaMinScore  float64
	RecaptchaVerifyURL string

	AWSRegion         string
	AWSSESEmailSender string
	MailFromName      string

	CORSAllowedOrigins []string
	CORSAllowVercel    bool

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	APIRateLimitRPS    float64
	APIRateLimitBurst  int

	FeatureToggles map[string]bool
}

// Load carrega a configuração da aplicação de variáveis de ambiente.
// Um arquivo .env é lido quando existe (desenvolvimento local).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado, usando apenas variáveis de ambiente")
	}

	cfg := &AppConfig{
		Port:        getEnv("PORT", "5000"),
		Environment: strings.ToLower(getEnv("ENVIRONMENT", EnvDevelopment)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AppVersion:  getEnv("APP_VERSION", "dev"),
		FrontendURL: strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "innovatube"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		RunMigrations:  getEnvAsBool("DB_RUN_MIGRATIONS", true),

		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		RedisURL:      os.Getenv("REDIS_URL"),

		RecaptchaSecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),
		RecaptchaMinScore:  getEnvAsFloat("RECAPTCHA_MIN_SCORE", 0.5),
		RecaptchaVerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),

		AWSRegion:         os.Getenv("AWS_REGION"),
		AWSSESEmailSender: os.Getenv("AWS_SES_EMAIL_SENDER"),
		MailFromName:      getEnv("FROM_NAME", "InnovaTube"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CORSAllowVercel:    getEnvAsBool("CORS_ALLOW_VERCEL", true),

		AuthRateLimitRPS:   getEnvAsFloat("RATE_LIMIT_AUTH_RPS", 0.5),
		AuthRateLimitBurst: getEnvAsInt("RATE_LIMIT_AUTH_BURST", 10),
		APIRateLimitRPS:    getEnvAsFloat("RATE_LIMIT_API_RPS", 5),
		APIRateLimitBurst:  getEnvAsInt("RATE_LIMIT_API_BURST", 50),

		FeatureToggles: loadFeatureToggles(os.Environ()),
	}

	lifespan, err := time.ParseDuration(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN inválido: %w", err)
	}
	cfg.JWTTokenLifespan = lifespan

	cacheTTL, err := time.ParseDuration(getEnv("YOUTUBE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("YOUTUBE_CACHE_TTL inválido: %w", err)
	}
	cfg.YouTubeCacheTTL = cacheTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Configuração carregada para o ambiente: %s", cfg.Environment)
	return cfg, nil
}

// Validate garante que os campos obrigatórios estão presentes. Chamado na inicialização.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.JWTTokenLifespan <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_USER, DB_PASSWORD and DB_NAME must be set for the postgres driver"))
		}
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("DATABASE_DRIVER=memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.YouTubeAPIKey == "" {
		errs = append(errs, errors.New("YOUTUBE_API_KEY must be set"))
	}
	if c.RedisURL != "" && c.YouTubeCacheTTL <= 0 {
		errs = append(errs, errors.New("YOUTUBE_CACHE_TTL must be positive when REDIS_URL is set"))
	}
	if c.IsProduction() {
		if c.RecaptchaSecretKey == "" {
			errs = append(errs, errors.New("RECAPTCHA_SECRET_KEY must be set in production"))
		}
		if !c.MailConfigured() {
			errs = append(errs, errors.New("AWS_REGION and AWS_SES_EMAIL_SENDER must be set in production"))
		}
	}
	return errors.Join(errs...)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// MailConfigured indica se o envio real de e-mails via SES está configurado.
func (c *AppConfig) MailConfigured() bool {
	return c.AWSRegion != "" && c.AWSSESEmailSender != ""
}

// DSN monta a string de conexão do PostgreSQL.
func (c *AppConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// getEnv retorna o valor de uma variável de ambiente ou um valor default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retorna o valor booleano de uma variável de ambiente ou um valor default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Aviso: variável booleana '%s' com valor inválido '%s', usando default: %t", key, valStr, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsInt(key string, defaultValue int) int {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Aviso: variável inteira '%s' com valor inválido '%s', usando default: %d", key, valStr, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		log.Printf("Aviso: variável numérica '%s' com valor inválido '%s', usando default: %v", key, valStr, defaultValue)
		return defaultValue
	}
	return v
}

// getEnvAsList lê uma lista separada por vírgulas.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadFeatureToggles lê variáveis FEATURE_<NOME>=true|false.
// As chaves são armazenadas sem o prefixo e em maiúsculas.
func loadFeatureToggles(environ []string) map[string]bool {
	toggles := make(map[string]bool)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "FEATURE_") {
			continue
		}
		name := strings.ToUpper(strings.TrimPrefix(key, "FEATURE_"))
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("Aviso: feature toggle '%s' com valor inválido '%s', ignorando", key, value)
			continue
		}
		toggles[name] = enabled
	}
	return toggles
}
