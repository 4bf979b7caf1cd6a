package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type APIConfig struct {
	Key  string
	Host string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type ObservabilityConfig struct {
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv          string
	AppPort         string
	API             APIConfig
	Redis           RedisConfig
	Observability   ObservabilityConfig
	CacheTTLMinutes int
}

// Load reads the full server configuration. A .env file is honored when
// present but the process environment always wins.
func Load() (*Config, error) {
	var errs []error

	_ = godotenv.Load()

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)

	apiKey := mustEnv("RAPID_API_KEY", &errs)
	apiHost := mustEnv("RAPID_API_HOST", &errs)

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := os.Getenv("REDIS_PASSWORD")

	otlpEndpoint := mustEnv("OTLP_ENDPOINT", &errs)

	cacheTTLMinutes := mustEnv("CACHE_TTL_MINUTES", &errs)
	cacheTTLMinutesInt, err := strconv.Atoi(cacheTTLMinutes)
	if err != nil {
		errs = append(errs, errors.New("conversion failed env: CACHE_TTL_MINUTES"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		API: APIConfig{
			Key:  apiKey,
			Host: apiHost,
		},
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: otlpEndpoint,
			ServiceName:  "skysearch",
			Environment:  appEnv,
		},
		CacheTTLMinutes: cacheTTLMinutesInt,
	}, nil
}

// LoadAPI reads just the API credentials, for CLI callers that do not need
// the serving stack.
func LoadAPI() (*APIConfig, error) {
	var errs []error

	_ = godotenv.Load()

	apiKey := mustEnv("RAPID_API_KEY", &errs)
	apiHost := mustEnv("RAPID_API_HOST", &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &APIConfig{
		Key:  apiKey,
		Host: apiHost,
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}
