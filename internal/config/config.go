package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the grader service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	OpenAIAPIKey      string
	MasterModel       string
	MasterMaxTokens   int
	MasterTemperature float32
	NoviceMaxTokens   int
	NoviceTemperature float32

	DataPath        string
	EvalLogPath     string
	DefaultLanguage string

	// DefaultScore is returned when no numeric signal can be parsed from the
	// judgment text. The neutral band bounds normalize mid-confidence
	// sentiment readings to NEUTRAL.
	DefaultScore     int
	NeutralBandLow   float64
	NeutralBandHigh  float64
	EvaluateRPSLimit int
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
	v.SetEnvPrefix("GRADER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Evalab Grader API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("master.model", "gpt-4o-mini")
	v.SetDefault("master.max_tokens", 512)
	v.SetDefault("master.temperature", 0.2)
	v.SetDefault("novice.max_tokens", 200)
	v.SetDefault("novice.temperature", 0.7)
	v.SetDefault("data.path", "data/qa_dataset.json")
	v.SetDefault("eval_log.path", "data/evaluations_log.jsonl")
	v.SetDefault("default.language", "English")
	v.SetDefault("default.score", 50)
	v.SetDefault("sentiment.neutral_low", 0.4)
	v.SetDefault("sentiment.neutral_high", 0.6)
	v.SetDefault("evaluate.rps_limit", 5)

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		MasterModel:       v.GetString("master.model"),
		MasterMaxTokens:   v.GetInt("master.max_tokens"),
		MasterTemperature: float32(v.GetFloat64("master.temperature")),
		NoviceMaxTokens:   v.GetInt("novice.max_tokens"),
		NoviceTemperature: float32(v.GetFloat64("novice.temperature")),
		DataPath:          v.GetString("data.path"),
		EvalLogPath:       v.GetString("eval_log.path"),
		DefaultLanguage:   v.GetString("default.language"),
		DefaultScore:      v.GetInt("default.score"),
		NeutralBandLow:    v.GetFloat64("sentiment.neutral_low"),
		NeutralBandHigh:   v.GetFloat64("sentiment.neutral_high"),
		EvaluateRPSLimit:  v.GetInt("evaluate.rps_limit"),
	}

	if cfg.MasterMaxTokens <= 0 {
		cfg.MasterMaxTokens = 512
	}

	if cfg.NoviceMaxTokens <= 0 {
		cfg.NoviceMaxTokens = 200
	}

	if cfg.DefaultScore < 0 || cfg.DefaultScore > 100 {
		return Config{}, fmt.Errorf("default score must be within [0,100], got %d", cfg.DefaultScore)
	}

	if cfg.NeutralBandLow > cfg.NeutralBandHigh {
		return Config{}, fmt.Errorf("sentiment neutral band is inverted: [%v,%v]", cfg.NeutralBandLow, cfg.NeutralBandHigh)
	}

	// The OpenAI key is deliberately not validated here: the completion client
	// is built lazily, so a missing credential surfaces at first use.

	return cfg, nil
}
