package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kynetix/internal/flagx"
	"github.com/dmitrijs2005/kynetix/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ReadTimeout                 timex.Duration `json:"read_timeout"`
	WriteTimeout                timex.Duration `json:"write_timeout"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file leave the current value alone. An unreadable
// or invalid file panics: the server must not start half-configured.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
