package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/types"
)

// DefaultMaxLineLen caps a single physical CSV line. Lines beyond the
// cap fail the parse instead of being truncated.
const DefaultMaxLineLen = 1024

// HeaderMap is the resolved header of one import: a technical key per
// input column position (empty for ignored columns) and the distinct
// recognized columns in first-seen order, used to render the preview.
type HeaderMap struct {
	Keys    []string
	Columns []schema.ColumnSpec
}

func (h HeaderMap) Width() int {
	return len(h.Keys)
}

type Parser struct {
	Registry   *schema.Registry
	MaxLineLen int
}

func NewParser(registry *schema.Registry) Parser {
	return Parser{Registry: registry, MaxLineLen: DefaultMaxLineLen}
}

// Parse reads a delimited host file into validated records. Rows with
// too few cells are skipped with a warning; an explicitly empty required
// field aborts the whole parse. Records keep original file order, with
// the header counted as line 1.
func (p Parser) Parse(ctx context.Context, r io.Reader, delimiter types.Delimiter) (HeaderMap, []types.HostRecord, error) {
	limited := &lineLimitReader{r: stripBOM(r), max: p.maxLineLen(), line: 1}
	reader := csv.NewReader(limited)
	reader.Comma = delimiter.Rune()
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return HeaderMap{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty CSV file")
	}
	if err != nil {
		return HeaderMap{}, nil, wrapReadError(err)
	}

	headerMap := HeaderMap{Keys: make([]string, len(header))}
	seen := make(map[string]struct{})
	for i, cell := range header {
		spec, ok := p.Registry.Resolve(cell)
		if !ok {
			// surplus columns are tolerated, not errors
			continue
		}
		headerMap.Keys[i] = spec.Key
		if _, dup := seen[spec.Key]; !dup {
			seen[spec.Key] = struct{}{}
			headerMap.Columns = append(headerMap.Columns, spec)
		}
	}
	for _, spec := range p.Registry.Required() {
		if _, ok := seen[spec.Key]; !ok {
			return HeaderMap{}, nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("missing required column %q / %q in CSV file", spec.Key, spec.Display))
		}
	}

	var records []types.HostRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return HeaderMap{}, nil, wrapReadError(err)
		}
		line++
		if len(row) < len(header) {
			log.Ctx(ctx).Warn().
				Int("line", line).
				Str("column", p.missingColumnName(header, headerMap, len(row))).
				Msg("row has too few columns, skipped")
			continue
		}

		fields := make(map[string]string)
		for i, cell := range row {
			if i >= len(header) {
				// surplus cells are silently dropped
				break
			}
			key := headerMap.Keys[i]
			if key == "" {
				continue
			}
			fields[key] = strings.TrimSpace(cell)
		}

		for _, spec := range p.Registry.Specs() {
			value, present := fields[spec.Key]
			if spec.Required && (!present || value == "") {
				return HeaderMap{}, nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("empty required column %q in CSV file line %d", spec.Key, line))
			}
			if !present {
				fields[spec.Key] = spec.Default
			}
		}

		records = append(records, types.HostRecord{Line: line, Fields: fields})
	}

	log.Ctx(ctx).Debug().Int("hosts", len(records)).Msg("host file parsed")
	return headerMap, records, nil
}

func (p Parser) maxLineLen() int {
	if p.MaxLineLen <= 0 {
		return DefaultMaxLineLen
	}
	return p.MaxLineLen
}

// missingColumnName names the first column a short row lacks, preferring
// the resolved technical key over the raw header cell.
func (p Parser) missingColumnName(header []string, headerMap HeaderMap, width int) string {
	if width < 0 || width >= len(header) {
		return ""
	}
	if key := headerMap.Keys[width]; key != "" {
		return key
	}
	return strings.TrimSpace(header[width])
}

func wrapReadError(err error) error {
	var tooLong *lineTooLongError
	if errors.As(err, &tooLong) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("line %d exceeds maximum length", tooLong.line)).
			WithCause(err)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to parse CSV file").
		WithCause(err)
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(3); err == nil && bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}

type lineTooLongError struct {
	line int
}

func (e *lineTooLongError) Error() string {
	return fmt.Sprintf("line %d exceeds maximum length", e.line)
}

// lineLimitReader fails reads once the current physical line grows past
// max bytes, before the CSV layer buffers the rest of the line.
type lineLimitReader struct {
	r       io.Reader
	max     int
	current int
	line    int
}

func (l *lineLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	for _, b := range p[:n] {
		if b == '\n' {
			l.line++
			l.current = 0
			continue
		}
		l.current++
		if l.current > l.max {
			return 0, &lineTooLongError{line: l.line}
		}
	}
	return n, err
}
