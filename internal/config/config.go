package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Sale     SaleConfig     `yaml:"sale"`
	Issuer   IssuerConfig   `yaml:"issuer"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SaleConfig struct {
	CommitTxTimeout  time.Duration `yaml:"commitTxTimeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

// IssuerConfig is the business identity printed on invoices and delivery
// notes.
type IssuerConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "comptoir")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "comptoir")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SALE_COMMIT_TX_TIMEOUT", "5s")
	viper.SetDefault("SALE_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("ISSUER_NAME", "Comptoir")
	viper.SetDefault("ISSUER_ADDRESS", "")
	viper.SetDefault("ISSUER_PHONE", "")
	viper.SetDefault("ISSUER_EMAIL", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	commitTxTimeout, err := time.ParseDuration(viper.GetString("SALE_COMMIT_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Sale: SaleConfig{
			CommitTxTimeout:  commitTxTimeout,
			MaxRetryAttempts: viper.GetInt("SALE_MAX_RETRY_ATTEMPTS"),
		},
		Issuer: IssuerConfig{
			Name:    viper.GetString("ISSUER_NAME"),
			Address: viper.GetString("ISSUER_ADDRESS"),
			Phone:   viper.GetString("ISSUER_PHONE"),
			Email:   viper.GetString("ISSUER_EMAIL"),
		},
	}

	return cfg, nil
}
