package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names understood by parseEnv.
const (
	EnvGRPCAddress   = "GRPC_ADDRESS"
	EnvDatabaseDSN   = "DATABASE_DSN"
	EnvSecretKey     = "SECRET_KEY"
	EnvAccessTTL     = "ACCESS_TOKEN_TTL"
	EnvStoreTimeout  = "STORE_TIMEOUT"
	EnvBcryptCost    = "BCRYPT_COST"
	EnvLogLevel      = "LOG_LEVEL"
	EnvMetricsAddr   = "METRICS_ADDRESS"
	EnvAdminName     = "ADMIN_NAME"
	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

// parseEnv overlays values from the dotenv file named by -env (default
// ".env") and from the process environment. A non-empty process value wins
// over the file; a set but empty one does not shadow it. A missing file is
// not an error; an unreadable one or a malformed duration/number panics,
// like parseJson.
func parseEnv(config *Config) {
	fileVars, err := godotenv.Read(flagx.EnvFileFlag())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		fileVars = map[string]string{}
	}

	applyEnv(config, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvGRPCAddress, &config.EndpointAddrGRPC)
	str(EnvDatabaseDSN, &config.DatabaseDSN)
	str(EnvSecretKey, &config.SecretKey)
	str(EnvLogLevel, &config.LogLevel)
	str(EnvMetricsAddr, &config.MetricsAddr)
	str(EnvAdminName, &config.AdminName)
	str(EnvAdminEmail, &config.AdminEmail)
	str(EnvAdminPassword, &config.AdminSecret)

	if v, ok := lookup(EnvAccessTTL); ok && v != "" {
		config.AccessTokenValidityDuration = mustDuration(v)
	}
	if v, ok := lookup(EnvStoreTimeout); ok && v != "" {
		config.StoreTimeout = mustDuration(v)
	}
	if v, ok := lookup(EnvBcryptCost); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
