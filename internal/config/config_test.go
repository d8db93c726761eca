package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBotConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "mdts_bot",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "notifications_exchange"},
			Queue:    QueueConfig{Name: "notifications_queue"},
		},
		Shop: ShopConfig{
			HomeTimezone: "Asia/Dubai",
			LaborRate:    "50",
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "mdts_bot", cfg.Database.Database)
				assert.Equal(t, "notifications_exchange", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "notifications_queue", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "bot-service", cfg.App.Name)
				assert.Equal(t, "Asia/Dubai", cfg.Shop.HomeTimezone)
				assert.Equal(t, "50", cfg.Shop.LaborRate)
				assert.Equal(t, 4, cfg.Notifier.Concurrency)
			}
		})
	}
}

func TestValidateBotConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:      "server port too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "invalid server port",
		},
		{
			name:      "server port too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			errString: "invalid server port",
		},
		{
			name:      "empty database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			errString: "database host is required",
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			errString: "database name is required",
		},
		{
			name:      "empty rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			errString: "rabbitmq host is required",
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "empty home timezone",
			mutate:    func(c *Config) { c.Shop.HomeTimezone = "" },
			errString: "home_timezone is required",
		},
		{
			name:      "empty labor rate",
			mutate:    func(c *Config) { c.Shop.LaborRate = "" },
			errString: "labor_rate is required",
		},
		{
			name:      "malformed labor rate",
			mutate:    func(c *Config) { c.Shop.LaborRate = "fifty" },
			errString: "invalid shop labor_rate",
		},
		{
			name:      "negative labor rate",
			mutate:    func(c *Config) { c.Shop.LaborRate = "-5" },
			errString: "labor_rate must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBotConfig()
			tt.mutate(cfg)

			err := cfg.ValidateBotConfig()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateNotifierConfig(t *testing.T) {
	valid := func() *Config {
		cfg := validBotConfig()
		cfg.Notifier = NotifierConfig{
			Concurrency:     4,
			SendTimeout:     10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		}
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().ValidateNotifierConfig())
	})

	t.Run("zero concurrency", func(t *testing.T) {
		cfg := valid()
		cfg.Notifier.Concurrency = 0
		err := cfg.ValidateNotifierConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "concurrency")
	})

	t.Run("zero send timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Notifier.SendTimeout = 0
		err := cfg.ValidateNotifierConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "send_timeout")
	})

	t.Run("rabbitmq still required", func(t *testing.T) {
		cfg := valid()
		cfg.RabbitMQ.Queue.Name = ""
		err := cfg.ValidateNotifierConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue name")
	})
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateBotConfig())
		require.NoError(t, cfg.ValidateNotifierConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)

		err = cfg.ValidateBotConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)

		err = cfg.ValidateBotConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}

func TestShopConfig_LaborRateDecimal(t *testing.T) {
	s := ShopConfig{LaborRate: "49.50"}
	assert.True(t, s.LaborRateDecimal().Equal(decimal.RequireFromString("49.5")))
}
