package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	Session      SessionConfig
	Wallet       WalletConfig
	Garden       GardenConfig
	Municipality MunicipalityConfig
	Meter        MeterConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects the repository backend. "memory" runs the full API
// without a database, mirroring the Mock* flags of the external gateways.
type StorageConfig struct {
	Driver string // "mongodb" or "memory"
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// PricingConfig holds the reward formula reference data. These are external
// configuration, never guessed at runtime.
type PricingConfig struct {
	KWhToEURRate           float64
	CO2EmissionFactor      float64
	GreenPointsPerKWh      int
	DoublePointsMultiplier float64
}

// SessionConfig holds saving-session defaults
type SessionConfig struct {
	DefaultDurationHours int
	BaselineDays         int
	MinBaselineSamples   int
	MaxBaselineKWh       float64
	PeakHoursStart       int
	PeakHoursEnd         int
}

// WalletConfig holds waste-wallet defaults
type WalletConfig struct {
	DefaultAnnualWasteFee float64
}

// GardenConfig holds green-garden defaults
type GardenConfig struct {
	GridSize int
}

// MunicipalityConfig holds municipality API configuration
type MunicipalityConfig struct {
	BaseURL string
	APIKey  string
	MockAPI bool
}

// MeterConfig holds smart-meter (EAC/AHK) API configuration
type MeterConfig struct {
	BaseURL string
	APIKey  string
	MockAPI bool
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "8000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("Storage.Driver", "mongodb")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "powersave")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Pricing.KWhToEURRate", 0.30)
	viper.SetDefault("Pricing.CO2EmissionFactor", 0.7)
	viper.SetDefault("Pricing.GreenPointsPerKWh", 10)
	viper.SetDefault("Pricing.DoublePointsMultiplier", 2.0)
	viper.SetDefault("Session.DefaultDurationHours", 3)
	viper.SetDefault("Session.BaselineDays", 10)
	viper.SetDefault("Session.MinBaselineSamples", 5)
	viper.SetDefault("Session.MaxBaselineKWh", 10.0)
	viper.SetDefault("Session.PeakHoursStart", 17)
	viper.SetDefault("Session.PeakHoursEnd", 20)
	viper.SetDefault("Wallet.DefaultAnnualWasteFee", 200.0)
	viper.SetDefault("Garden.GridSize", 5)
	viper.SetDefault("Municipality.MockAPI", true)
	viper.SetDefault("Meter.MockAPI", true)
	viper.SetDefault("LogLevel", "info")
}
