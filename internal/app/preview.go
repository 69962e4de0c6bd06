package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/core"
	"zabbix-host-import/internal/types"
)

// Preview stages the input file and parses it so the operator can check
// what an import would create. A parse failure discards the staged file
// again, leaving the workflow where it started.
func (s Service) Preview(ctx context.Context, req PreviewRequest) (PreviewResult, error) {
	inputPath := strings.TrimSpace(req.InputPath)
	if inputPath == "" {
		return PreviewResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("input file is required")
	}
	content, err := readHostFile(inputPath)
	if err != nil {
		return PreviewResult{}, err
	}
	stagedPath, err := s.Staging.Save(content)
	if err != nil {
		return PreviewResult{}, err
	}

	parser := core.NewParser(s.Registry)
	header, rows, err := parser.Parse(ctx, bytes.NewReader(content), req.Delimiter)
	if err != nil {
		if deleteErr := s.Staging.Delete(); deleteErr != nil {
			log.Ctx(ctx).Warn().Err(deleteErr).Msg("failed to discard staged host file")
		}
		return PreviewResult{}, err
	}
	log.Ctx(ctx).Info().
		Str("staged", stagedPath).
		Int("rows", len(rows)).
		Msg("host file staged for import")

	// only the recognized columns, in first-seen order
	columns := make([]string, 0, len(header.Columns))
	for _, spec := range header.Columns {
		columns = append(columns, spec.Key)
	}
	return PreviewResult{
		StagedPath: stagedPath,
		Columns:    columns,
		Rows:       rows,
		State:      types.WorkflowPreviewing,
	}, nil
}

// maxHostFileBytes caps the accepted input file size, mirroring the
// upload limit of the original web form.
const maxHostFileBytes = 8 << 20

func readHostFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read input file").
			WithCause(err)
	}
	if info.Size() > maxHostFileBytes {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("host file %s exceeds the %d byte upload limit", path, maxHostFileBytes))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read input file").
			WithCause(err)
	}
	return content, nil
}
