package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/flowlogs/pkg/logger"
)

const (
	SourceFile = "file"
	SourceNATS = "nats"
	SourceCNPG = "cnpg"

	TimeFormat12h = "12h"
	TimeFormat24h = "24h"

	DefaultLimit = 500
)

// Configuration errors
var (
	ErrUnknownSource      = errors.New("source must be one of file, nats or cnpg")
	ErrMissingFile        = errors.New("file is required for the file source")
	ErrMissingNATSConfig  = errors.New("nats configuration is required for the nats source")
	ErrMissingNATSURL     = errors.New("nats.url is required")
	ErrMissingStreamName  = errors.New("nats.stream_name is required")
	ErrMissingCNPGConfig  = errors.New("cnpg configuration is required for the cnpg source")
	ErrMissingCNPGHost    = errors.New("cnpg.host is required")
	ErrInvalidTimeFormat  = errors.New("time_format must be 12h or 24h")
	ErrInvalidTimezone    = errors.New("timezone is not a known IANA location")
	ErrInvalidLimit       = errors.New("limit must not be negative")
	ErrMTLSMissingKeyPair = errors.New("mtls security requires cert_file and key_file")
)

// ViewerConfig configures the flow log viewer.
type ViewerConfig struct {
	Source        string            `json:"source"`
	File          string            `json:"file,omitempty"`
	Limit         int               `json:"limit,omitempty"`
	TimeFormat    string            `json:"time_format,omitempty"`
	Timezone      string            `json:"timezone,omitempty"`
	HiddenColumns []string          `json:"hidden_columns,omitempty"`
	NATS          *NATSSourceConfig `json:"nats,omitempty"`
	CNPG          *CNPGSourceConfig `json:"cnpg,omitempty"`
	Logging       *logger.Config    `json:"logging,omitempty"`
}

// NATSSourceConfig points the viewer at a JetStream stream of JSON flow logs.
type NATSSourceConfig struct {
	URL          string          `json:"url"`
	CredsFile    string          `json:"creds_file,omitempty"`
	StreamName   string          `json:"stream_name"`
	Subject      string          `json:"subject,omitempty"`
	ConsumerName string          `json:"consumer_name,omitempty"`
	DeliverNew   bool            `json:"deliver_new,omitempty"`
	BatchSize    int             `json:"batch_size,omitempty"`
	Security     *SecurityConfig `json:"security,omitempty"`
}

// CNPGSourceConfig describes the Postgres (CNPG) database holding flow logs.
type CNPGSourceConfig struct {
	Host      string          `json:"host"`
	Port      int             `json:"port,omitempty"`
	Database  string          `json:"database"`
	Username  string          `json:"username,omitempty"`
	Password  string          `json:"password,omitempty"`
	SSLMode   string          `json:"ssl_mode,omitempty"`
	Table     string          `json:"table,omitempty"`
	Namespace string          `json:"namespace,omitempty"`
	Security  *SecurityConfig `json:"security,omitempty"`
}

// SecurityConfig holds client TLS material for NATS and CNPG connections.
type SecurityConfig struct {
	Mode       string `json:"mode"`
	CertDir    string `json:"cert_dir,omitempty"`
	CertFile   string `json:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`
	CAFile     string `json:"ca_file,omitempty"`
	ServerName string `json:"server_name,omitempty"`
}

// DefaultViewerConfig reads JSON lines from stdin and renders 12-hour times.
func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Source:     SourceFile,
		File:       "-",
		Limit:      DefaultLimit,
		TimeFormat: TimeFormat12h,
	}
}

// Location resolves Timezone; empty means the local zone.
func (c *ViewerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, c.Timezone)
	}

	return loc, nil
}

// Validate ensures the configuration is valid.
func (c *ViewerConfig) Validate() error {
	var errs []error

	switch c.Source {
	case SourceFile:
		if c.File == "" {
			errs = append(errs, ErrMissingFile)
		}
	case SourceNATS:
		errs = append(errs, c.validateNATS()...)
	case SourceCNPG:
		if c.CNPG == nil {
			errs = append(errs, ErrMissingCNPGConfig)
		} else {
			if c.CNPG.Host == "" {
				errs = append(errs, ErrMissingCNPGHost)
			}

			errs = append(errs, c.CNPG.Security.validate()...)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSource, c.Source))
	}

	switch c.TimeFormat {
	case "", TimeFormat12h, TimeFormat24h:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, c.TimeFormat))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.Limit < 0 {
		errs = append(errs, ErrInvalidLimit)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (c *ViewerConfig) validateNATS() []error {
	if c.NATS == nil {
		return []error{ErrMissingNATSConfig}
	}

	var errs []error

	if c.NATS.URL == "" {
		errs = append(errs, ErrMissingNATSURL)
	}

	if c.NATS.StreamName == "" {
		errs = append(errs, ErrMissingStreamName)
	}

	return append(errs, c.NATS.Security.validate()...)
}

func (s *SecurityConfig) validate() []error {
	if s == nil || s.Mode != "mtls" {
		return nil
	}

	if s.CertFile == "" || s.KeyFile == "" {
		return []error{ErrMTLSMissingKeyPair}
	}

	return nil
}
