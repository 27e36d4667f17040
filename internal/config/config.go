package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/types"
	"github.com/flexprice/saaskpi/internal/validator"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Workbook   WorkbookConfig   `mapstructure:"workbook" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Push       PushConfig       `mapstructure:"push"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	S3         S3Config         `mapstructure:"s3"`
	Queries    QueriesConfig    `mapstructure:"queries"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type WorkbookConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type QueriesConfig struct {
	Dir string `mapstructure:"dir"`
}

// secretKeys are bound to environment variables even when the config file
// does not mention them, so credentials can live in .env only.
var secretKeys = []string{
	"postgres.host",
	"postgres.port",
	"postgres.user",
	"postgres.password",
	"postgres.dbname",
	"clickhouse.address",
	"clickhouse.username",
	"clickhouse.password",
	"s3.bucket",
	"s3.region",
	"workbook.path",
	"generation.today",
}

// NewConfig loads config.yaml (or the file at path when non-empty) on top of
// the built-in defaults, overlays SAASKPI_* environment variables and validates
// the result.
func NewConfig(path string) (*Configuration, error) {
	// .env is optional; it only carries credentials
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./internal/config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/saaskpi")
	}

	v.SetEnvPrefix("SAASKPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrValidation)
		}
	}

	config := GetDefaultConfig()
	if err := v.Unmarshal(config, func(dc *mapstructure.DecoderConfig) {
		// configured lists replace the defaults instead of merging into them
		dc.ZeroFields = true
	}); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode configuration").
			Mark(ierr.ErrValidation)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c Configuration) Validate() error {
	if err := validator.ValidateStruct(c, "Configuration validation failed"); err != nil {
		return err
	}

	if err := c.Generation.Validate(); err != nil {
		return err
	}

	// customers draw segments that the subscription allocator must know about
	for _, segment := range c.Generation.Customers.SegmentMix.Labels() {
		if _, ok := c.Generation.Subscriptions.PlanMixFor(segment); !ok {
			return ierr.NewErrorf("segment %q has no plan mix", segment).
				WithHint("Add the segment to generation.subscriptions.segment_plans or set default_segment").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// GetDefaultConfig returns the configuration used when no file is present.
// Its values mirror the knobs the dataset was originally tuned with.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Workbook:   WorkbookConfig{Path: "./data/saas_kpi_data.db"},
		Generation: DefaultGenerationConfig(),
		Push: PushConfig{
			Schema: "raw",
		},
		Postgres: PostgresConfig{
			Port:         5432,
			SSLMode:      "require",
			MaxOpenConns: 4,
		},
		ClickHouse: ClickHouseConfig{
			Database: "default",
		},
		Queries: QueriesConfig{Dir: "./sql"},
	}
}

// Today resolves the generation date: the configured override, or the current
// UTC calendar day.
func (c Configuration) Today(now time.Time) (time.Time, error) {
	if c.Generation.Today == "" {
		return types.Day(now.UTC()), nil
	}
	t, err := types.ParseDate(c.Generation.Today)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("generation.today must be formatted as YYYY-MM-DD").
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
