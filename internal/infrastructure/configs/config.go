package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/scrawlhq/scrawl/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Game        GameConfig        `koanf:"game"`
	RoomStore   RoomStoreConfig   `koanf:"room_store"`
	Logger      LoggerConfig      `koanf:"logger"`
	Mongo       MongoConfig       `koanf:"mongo"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

// GameConfig holds the per-room defaults. Hosts can override round time,
// round count, language and category per room; the rest is server-wide.
type GameConfig struct {
	RoundTime         time.Duration `koanf:"round_time"`
	MaxRounds         int           `koanf:"max_rounds"`
	WordChoiceTimeout time.Duration `koanf:"word_choice_timeout"`
	InterRoundDelay   time.Duration `koanf:"inter_round_delay"`
	MaxPlayers        int           `koanf:"max_players"`
	WordChoices       int           `koanf:"word_choices"`
}

type RoomStoreConfig struct {
	Capacity uint `koanf:"capacity"`
}

type LoggerConfig struct {
	Backend    string `koanf:"backend"`
	FilePath   string `koanf:"file_path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type MongoConfig struct {
	Database          string `koanf:"database"`
	RoundsCap         int64  `koanf:"rounds_cap"`
	LeaderboardsCap   int64  `koanf:"leaderboards_cap"`
	LeaderboardsLimit int64  `koanf:"leaderboards_limit"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	// Game defaults
	setDefault(k, "game.round_time", 60*time.Second)
	setDefault(k, "game.max_rounds", 8)
	setDefault(k, "game.word_choice_timeout", 30*time.Second)
	setDefault(k, "game.inter_round_delay", 3500*time.Millisecond)
	setDefault(k, "game.max_players", 12)
	setDefault(k, "game.word_choices", 3)

	// Store defaults
	setDefault(k, "room_store.capacity", 500)

	// Logger defaults
	setDefault(k, "logger.backend", "zap")
	setDefault(k, "logger.file_path", "logs/scrawl.log")
	setDefault(k, "logger.max_size_mb", 100)
	setDefault(k, "logger.max_backups", 3)
	setDefault(k, "logger.max_age_days", 28)

	// Mongo defaults
	setDefault(k, "mongo.database", "scrawl")
	setDefault(k, "mongo.rounds_cap", 1000)
	setDefault(k, "mongo.leaderboards_cap", 1000)
	setDefault(k, "mongo.leaderboards_limit", 100)
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	// Rate limiter config from env
	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if cacheTTL := env.GetInt("RATE_LIMIT_CACHE_TTL_MINUTES", 0); cacheTTL > 0 {
		k.Set("rateLimiter.cacheTTL", time.Duration(cacheTTL)*time.Minute)
	}
	if sourceKey := env.GetString("RATE_LIMIT_SOURCE_HEADER_KEY", ""); sourceKey != "" {
		k.Set("rateLimiter.sourceHeaderKey", sourceKey)
	}

	// Game config from env
	if roundTime := env.GetInt("GAME_ROUND_TIME_SECONDS", 0); roundTime > 0 {
		k.Set("game.round_time", time.Duration(roundTime)*time.Second)
	}
	if maxRounds := env.GetInt("GAME_MAX_ROUNDS", 0); maxRounds > 0 {
		k.Set("game.max_rounds", maxRounds)
	}
	if wordTimeout := env.GetInt("GAME_WORD_CHOICE_TIMEOUT_SECONDS", 0); wordTimeout > 0 {
		k.Set("game.word_choice_timeout", time.Duration(wordTimeout)*time.Second)
	}
	if maxPlayers := env.GetInt("GAME_MAX_PLAYERS", 0); maxPlayers > 0 {
		k.Set("game.max_players", maxPlayers)
	}

	// Store config from env
	if roomCapacity := env.GetInt("ROOM_STORE_CAPACITY", 0); roomCapacity > 0 {
		k.Set("room_store.capacity", uint(roomCapacity))
	}

	// Logger config from env
	if backend := env.GetString("LOGGER_BACKEND", ""); backend != "" {
		k.Set("logger.backend", backend)
	}
	if filePath := env.GetString("LOGGER_FILE_PATH", ""); filePath != "" {
		k.Set("logger.file_path", filePath)
	}

	// Mongo config from env
	if database := env.GetString("MONGO_DATABASE", ""); database != "" {
		k.Set("mongo.database", database)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
