package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string      `yaml:"log-level" env-default:"info"`
	HTTPPort          string      `yaml:"http-port" env-default:"9090"`
	SocketPort        string      `yaml:"socket-port" env-default:"8080"`
	Redis             Redis       `yaml:"redis"`
	Matchmaking       Matchmaking `yaml:"matchmaking"`
	SQLiteStoragePath string      `yaml:"sqlite-storage-path" env-default:"goban.db"`
	JWTSecretKey      string      `yaml:"jwt-secret-key"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Matchmaking struct {
	DwellTimeMS    int `yaml:"dwell-time-ms" env-default:"300"`
	ScanIntervalMS int `yaml:"scan-interval-ms" env-default:"250"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Matchmaking) DwellTime() time.Duration {
	return time.Duration(that.DwellTimeMS) * time.Millisecond
}

func (that *Matchmaking) ScanInterval() time.Duration {
	return time.Duration(that.ScanIntervalMS) * time.Millisecond
}
