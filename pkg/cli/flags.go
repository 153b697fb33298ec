package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseFlags parses the viewer flags from args, without the program name.
func ParseFlags(args []string, errOut io.Writer) (*CmdConfig, error) {
	fs := flag.NewFlagSet("flowlogs", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { ShowHelp(errOut) }

	cfg := &CmdConfig{}

	var hide string

	fs.BoolVar(&cfg.Help, "help", false, "show help message")
	fs.StringVar(&cfg.ConfigFile, "config", "", "path to a JSON viewer config")
	fs.StringVar(&cfg.Source, "source", "", "flow log source: file, nats or cnpg")
	fs.StringVar(&cfg.File, "file", "", `flow log file, "-" for stdin`)
	fs.BoolVar(&cfg.Plain, "plain", false, "print a plain table")
	fs.IntVar(&cfg.Limit, "limit", 0, "keep at most this many flow logs")
	fs.StringVar(&cfg.TimeFormat, "time-format", "", "12h or 24h")
	fs.StringVar(&cfg.Timezone, "timezone", "", "IANA zone for times")
	fs.StringVar(&hide, "hide", "", "comma separated column ids to hide")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "limit" {
			cfg.LimitSet = true
		}
	})

	for _, id := range strings.Split(hide, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.HiddenColumns = append(cfg.HiddenColumns, id)
		}
	}

	return cfg, nil
}
