package config

import (
	"crypto/tls"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// PushConfig controls the workbook → external store adapter.
type PushConfig struct {
	// Schema is the namespace tables are replaced under
	Schema string `mapstructure:"schema"`
	// Renames maps workbook table names to target names before sanitizing
	Renames []TableRename `mapstructure:"renames"`
}

type TableRename struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

type PostgresConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type ClickHouseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	TLS      bool   `mapstructure:"tls"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RenameFor returns the configured target name of a workbook table.
func (c PushConfig) RenameFor(table string) string {
	for _, r := range c.Renames {
		if r.From == table {
			return r.To
		}
	}
	return table
}

func (c ClickHouseConfig) GetClientOptions() *clickhouse.Options {
	options := &clickhouse.Options{
		Addr: []string{c.Address},
		Auth: clickhouse.Auth{
			Database: c.Database,
			Username: c.Username,
			Password: c.Password,
		},
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	}
	if c.TLS {
		options.TLS = &tls.Config{}
	}
	return options
}
