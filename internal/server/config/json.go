package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/imprint/internal/flagx"
	"github.com/dmitrijs2005/imprint/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept "10m"
// style strings or integer nanoseconds. Absent keys leave the current value.
type JsonConfig struct {
	EndpointAddrHTTP                 string         `json:"endpoint_addr_http"`
	DatabaseDSN                      *string        `json:"database_dsn"`
	SecretKey                        string         `json:"secret_key"`
	AccessTokenValidityDuration      timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration     timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration       timex.Duration `json:"reset_token_validity_duration"`
	VerificationCodeValidityDuration timex.Duration `json:"verification_code_validity_duration"`
	VerificationResendInterval       timex.Duration `json:"verification_resend_interval"`
	RequireEmailVerification         *bool          `json:"require_email_verification"`
	MailDriver                       string         `json:"mail_driver"`
	MailFrom                         string         `json:"mail_from"`
	SESRegion                        string         `json:"ses_region"`
	SESEndpoint                      string         `json:"ses_endpoint"`
	SESAccessKeyID                   string         `json:"ses_access_key_id"`
	SESSecretAccessKey               string         `json:"ses_secret_access_key"`
	PublicBaseURL                    string         `json:"public_base_url"`
	LogLevel                         string         `json:"log_level"`
	BcryptCost                       int            `json:"bcrypt_cost"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $IMPRINT_CONFIG) onto config. No file means no changes. An unreadable
// file or invalid JSON panics, the same way bad flags do.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
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

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ResetTokenValidityDuration, c.ResetTokenValidityDuration)
	setDuration(&config.VerificationCodeValidityDuration, c.VerificationCodeValidityDuration)
	setDuration(&config.VerificationResendInterval, c.VerificationResendInterval)
	if c.RequireEmailVerification != nil {
		config.RequireEmailVerification = *c.RequireEmailVerification
	}
	setString(&config.MailDriver, c.MailDriver)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESEndpoint, c.SESEndpoint)
	setString(&config.SESAccessKeyID, c.SESAccessKeyID)
	setString(&config.SESSecretAccessKey, c.SESSecretAccessKey)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
