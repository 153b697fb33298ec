package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

const maxLineBytes = 1 << 20

// FileSource reads flow logs from a file of JSON lines or a single JSON array.
// The path "-" reads standard input.
type FileSource struct {
	path  string
	limit int
	log   logger.Logger
	stdin io.Reader
}

func NewFileSource(path string, limit int, log logger.Logger) *FileSource {
	return &FileSource{
		path:  path,
		limit: limit,
		log:   log,
		stdin: os.Stdin,
	}
}

func (s *FileSource) Load(ctx context.Context) ([]*models.FlowLog, error) {
	r, closeFn, err := s.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rows []*models.FlowLog
	if first == '[' {
		rows, err = s.readArray(ctx, br)
	} else {
		rows, err = s.readLines(ctx, br)
	}

	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("path", s.path).Int("rows", len(rows)).Msg("Loaded flow logs")

	return keepLast(rows, s.limit), nil
}

func (*FileSource) Close() error {
	return nil
}

func (s *FileSource) open() (io.Reader, func(), error) {
	if s.path == "-" {
		return s.stdin, func() {}, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open flow log file: %w", err)
	}

	return f, func() {
		if err := f.Close(); err != nil {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Failed to close flow log file")
		}
	}, nil
}

func (s *FileSource) readLines(ctx context.Context, r io.Reader) ([]*models.FlowLog, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows []*models.FlowLog

	line := 0

	for scanner.Scan() {
		line++

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		f, err := decodeFlowLog(data, s.log)
		if err != nil {
			s.log.Warn().Err(err).Str("path", s.path).Int("line", line).Msg("Skipping malformed flow log")
			continue
		}

		rows = append(rows, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return rows, nil
}

func (s *FileSource) readArray(ctx context.Context, r io.Reader) ([]*models.FlowLog, error) {
	var raw []json.RawMessage

	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	rows := make([]*models.FlowLog, 0, len(raw))

	for i, data := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := decodeFlowLog(data, s.log)
		if err != nil {
			s.log.Warn().Err(err).Str("path", s.path).Int("index", i).Msg("Skipping malformed flow log")
			continue
		}

		rows = append(rows, f)
	}

	return rows, nil
}

// peekNonSpace discards leading whitespace and returns the next byte unread.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}

		if err := br.UnreadByte(); err != nil {
			return 0, err
		}

		return b, nil
	}
}
