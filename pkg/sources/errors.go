package sources

import "errors"

var (
	errDecode          = errors.New("invalid flow log")
	errStreamNotFound  = errors.New("jetstream stream not found")
	errTLSKeyPair      = errors.New("tls: cert_file and key_file are required")
	errCAParsingFailed = errors.New("tls: unable to append CA certificate")
	errEmptyTable      = errors.New("cnpg table name is empty")
)
