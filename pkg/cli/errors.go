package cli

import "errors"

var (
	errConfigLoadFailed = errors.New("failed to load config")
	errInvalidConfig    = errors.New("invalid configuration")
	errSourceFailed     = errors.New("failed to open flow log source")
	errLoadFailed       = errors.New("failed to load flow logs")
	errLoggerInit       = errors.New("failed to initialize logger")
	errUnexpectedArgs   = errors.New("unexpected arguments")
)
