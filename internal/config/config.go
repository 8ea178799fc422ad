package config

import "github.com/spf13/viper"

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	SnapshotKey    string `mapstructure:"SNAPSHOT_KEY"`
	MapZoom        int    `mapstructure:"MAP_ZOOM"`
	StreamChannel  string `mapstructure:"STREAM_CHANNEL"`
	PostgresURL    string `mapstructure:"POSTGRES_URL"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	// OperatorPasswordHash is a bcrypt hash; auth is off while it or
	// JWTSecret is empty.
	OperatorPasswordHash string `mapstructure:"OPERATOR_PASSWORD_HASH"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("SNAPSHOT_KEY", "workouts")
	v.SetDefault("MAP_ZOOM", 13)
	v.SetDefault("STREAM_CHANNEL", "mapty")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("SQLITE_PATH", "mapty.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("OPERATOR_PASSWORD_HASH", "")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.OperatorPasswordHash != ""
}
