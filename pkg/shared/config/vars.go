package config

import (
	"time"

	"github.com/granodigital/report-annotate/internal/matcher"
)

// Config is the file-backed application configuration.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HttpClient HttpClient `yaml:"http_client"`
	Annotate   Annotate   `yaml:"annotate"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Annotate configures report matching and the annotation cap.
type Annotate struct {
	MaxPerType int                     `yaml:"max_per_type"`
	Matchers   map[string]matcher.Spec `yaml:"matchers"`
	Reports    []string                `yaml:"reports"`
}

type HttpClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TlsClientConfig  TlsClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TlsClientConfig struct {
	Verify bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}
