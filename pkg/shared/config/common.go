package config

import (
	"crypto/tls"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHttpConfig returns a base configuration for HTTP clients with default values.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 5 * time.Second,
		Timeout:          30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a default configuration for the resty HTTP client, extending the base HTTP configuration.
func DefaultRestyConfig() RestyHttpClientConfig {
	return RestyHttpClientConfig{
		BaseHTTPConfig: DefaultHttpConfig(),
		Debug:          false,
	}
}
