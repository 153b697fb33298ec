package cli

import (
	"fmt"
	"io"
)

// ShowHelp writes the usage message to w.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `flowlogs: terminal viewer for network flow logs
Usage:
  flowlogs [options]

Options:
  -config string       path to a JSON viewer config (CONFIG_SOURCE=env reads FLOWLOGS_* instead)
  -source string       flow log source: file, nats or cnpg (default "file")
  -file string         JSON lines or JSON array file, "-" for stdin (default "-")
  -plain               print a plain table instead of the interactive viewer
  -limit int           keep at most this many flow logs (default 500)
  -time-format string  12h or 24h (default "12h")
  -timezone string     IANA zone for times, e.g. UTC (default local)
  -hide string         comma separated column ids to hide, e.g. end_time,protocol
  -help                show this help message

Keys:
  ←/→ h/l  focus column     s  sort asc/desc/off    [ ]  move column
  + -      resize column    c  customize columns    enter  row details
  y        copy row JSON    ?  help                 q  quit

Examples:
  # View a file of flow logs
  flowlogs -file flows.json

  # Pipe flow logs and print a table
  kubectl logs -n calico-system ds/flow-exporter | flowlogs -plain

  # Tail a JetStream stream
  flowlogs -config /etc/flowlogs/nats.json -source nats
`)
}
