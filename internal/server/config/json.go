package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophmember/internal/flagx"
	"github.com/dmitrijs2005/gophmember/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Duration fields
// accept "5s"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StoreTimeout                timex.Duration `json:"store_timeout"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	LogLevel                    string         `json:"log_level"`
	DispatchQueueSize           int            `json:"dispatch_queue_size"`
	DispatchWorkers             int            `json:"dispatch_workers"`
	MetricsAddr                 string         `json:"metrics_addr"`
	AdminName                   string         `json:"admin_name"`
	AdminEmail                  string         `json:"admin_email"`
	AdminSecret                 string         `json:"admin_password"`
}

// parseJson loads the JSON file named by -c/-config, if any, and copies every
// field that is set in the file into config. Fields absent from the file keep
// their current values. A missing or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.AdminName, c.AdminName)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminSecret, c.AdminSecret)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.DispatchQueueSize > 0 {
		config.DispatchQueueSize = c.DispatchQueueSize
	}
	if c.DispatchWorkers > 0 {
		config.DispatchWorkers = c.DispatchWorkers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
