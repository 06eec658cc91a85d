package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RecoveryConfig tunes recovery code hashing and provisioning.
type RecoveryConfig struct {
	// Argon2id parameters for the recovery code hash.
	HashMemoryKiB     int `mapstructure:"hash_memory_kib"`
	HashIterations    int `mapstructure:"hash_iterations"`
	HashParallelism   int `mapstructure:"hash_parallelism"`
	MaxProvisionTries int `mapstructure:"max_provision_tries"`
}

// RestoreLimitConfig tunes the restore-path failure limiter.
type RestoreLimitConfig struct {
	// Backend selects the counter store: "redis" or "memory".
	// The memory backend is per-process; rate limits are not shared
	// across horizontally scaled instances.
	Backend       string `mapstructure:"backend"`
	MaxFailures   int    `mapstructure:"max_failures"`
	WindowMinutes int    `mapstructure:"window_minutes"`
	// RequestsPerMinute caps total restore requests per IP at the
	// middleware layer, before the failure limiter is consulted.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
