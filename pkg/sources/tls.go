package sources

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carverauto/flowlogs/pkg/models"
)

// tlsConfig builds client TLS material. It returns nil when sec does not ask
// for mTLS. Relative paths resolve against CertDir.
func tlsConfig(sec *models.SecurityConfig, defaultServerName string) (*tls.Config, error) {
	if sec == nil || sec.Mode != "mtls" {
		return nil, nil
	}

	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) || sec.CertDir == "" {
			return path
		}

		return filepath.Join(sec.CertDir, path)
	}

	certFile := resolve(sec.CertFile)
	keyFile := resolve(sec.KeyFile)

	if certFile == "" || keyFile == "" {
		return nil, errTLSKeyPair
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	conf := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ServerName:   sec.ServerName,
		MinVersion:   tls.VersionTLS12,
	}

	if conf.ServerName == "" {
		conf.ServerName = defaultServerName
	}

	if caFile := resolve(sec.CAFile); caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errCAParsingFailed
		}

		conf.RootCAs = pool
	}

	return conf, nil
}
