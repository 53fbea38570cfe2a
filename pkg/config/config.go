package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Весовые коэффициенты и шкала опыта движка оценки.
	// EXPERIENCE_STEPS задаётся строкой "годы:балл,...", например "1:20,2:40,4:60,6:80".
	SkillWeight        float64
	ExperienceWeight   float64
	ExperienceSteps    string
	ExperienceMaxScore float64

	MaxUploadSizeMB    int
	MaxBatchSize       int
	MinJobWords        int
	RateLimitPerMinute int
	SessionTTLHours    int

	// bcrypt-хеш админ-ключа; пустое значение отключает админ-маршруты.
	AdminKeyHash string

	LogJSON  bool
	LogDebug bool
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "resumerank"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		SkillWeight:        getEnvFloat("SKILL_WEIGHT", 0.7),
		ExperienceWeight:   getEnvFloat("EXPERIENCE_WEIGHT", 0.3),
		ExperienceSteps:    getEnv("EXPERIENCE_STEPS", "1:20,2:40,4:60,6:80"),
		ExperienceMaxScore: getEnvFloat("EXPERIENCE_MAX_SCORE", 100),

		MaxUploadSizeMB:    getEnvInt("MAX_UPLOAD_SIZE_MB", 10),
		MaxBatchSize:       getEnvInt("MAX_BATCH_SIZE", 10),
		MinJobWords:        getEnvInt("MIN_JOB_WORDS", 20),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 5),
		SessionTTLHours:    getEnvInt("SESSION_TTL_HOURS", 1),

		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),

		LogJSON:  getEnvBool("LOG_JSON", false),
		LogDebug: getEnvBool("LOG_DEBUG", false),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
