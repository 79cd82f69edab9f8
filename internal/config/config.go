package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	EventsSubject       string
	JWTSecret           string
	JWTRefreshSecret    string
	JWTAccessTTL        time.Duration
	JWTRefreshTTL       time.Duration
	ReportCacheTTL      time.Duration
	MaxQuestionsPerQuiz int
	AnswersPerMinute    int
	AllowSelfPromotion  bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("QUIZ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Quiz Grading API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.subject", "quiz.submissions")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("quiz.max_questions", 4)
	v.SetDefault("rate_limit.answers_per_minute", 60)
	v.SetDefault("auth.allow_self_promotion", false)

	accessTTL, err := parseDuration(v, "jwt.access_ttl")
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseDuration(v, "jwt.refresh_ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "report.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		EventsSubject:       v.GetString("events.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		JWTRefreshSecret:    v.GetString("jwt.refresh_secret"),
		JWTAccessTTL:        accessTTL,
		JWTRefreshTTL:       refreshTTL,
		ReportCacheTTL:      cacheTTL,
		MaxQuestionsPerQuiz: v.GetInt("quiz.max_questions"),
		AnswersPerMinute:    v.GetInt("rate_limit.answers_per_minute"),
		AllowSelfPromotion:  v.GetBool("auth.allow_self_promotion"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	// 0 lifts the question limit.
	if cfg.MaxQuestionsPerQuiz < 0 {
		cfg.MaxQuestionsPerQuiz = 4
	}

	if cfg.AnswersPerMinute <= 0 {
		cfg.AnswersPerMinute = 60
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value := v.GetString(key)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return duration, nil
}
