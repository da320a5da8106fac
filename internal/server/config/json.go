package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/feedbackhub/feedbackhub/internal/flagx"
	"github.com/feedbackhub/feedbackhub/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Duration fields use timex.Duration, which accepts both string values
// such as "30m" and integer nanoseconds. After unmarshalling, set fields are
// copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	DefaultPageSize             int            `json:"default_page_size"`
	MaxPageSize                 int            `json:"max_page_size"`
	MinPasswordLength           int            `json:"min_password_length"`
	RequireUppercase            *bool          `json:"require_uppercase"`
	RequireLowercase            *bool          `json:"require_lowercase"`
	RequireDigit                *bool          `json:"require_digit"`
	RequireSpecial              *bool          `json:"require_special"`
	CORSOrigins                 string         `json:"cors_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags; when
// neither is present the function is a no-op. An unreadable or malformed
// file panics, matching the other loaders' fail-fast behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.DefaultPageSize != 0 {
		config.DefaultPageSize = c.DefaultPageSize
	}
	if c.MaxPageSize != 0 {
		config.MaxPageSize = c.MaxPageSize
	}
	if c.MinPasswordLength != 0 {
		config.MinPasswordLength = c.MinPasswordLength
	}
	if c.RequireUppercase != nil {
		config.RequireUppercase = *c.RequireUppercase
	}
	if c.RequireLowercase != nil {
		config.RequireLowercase = *c.RequireLowercase
	}
	if c.RequireDigit != nil {
		config.RequireDigit = *c.RequireDigit
	}
	if c.RequireSpecial != nil {
		config.RequireSpecial = *c.RequireSpecial
	}
	if c.CORSOrigins != "" {
		config.CORSOrigins = c.CORSOrigins
	}
}
