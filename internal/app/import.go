package app

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/core"
	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/types"
)

// Import creates one host per data row, in file order. A row failure is
// recorded in its outcome and never aborts the rest of the batch. The
// staged artifact is removed once the run completes.
func (s Service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	content, err := s.importInput(req)
	if err != nil {
		return ImportResult{}, err
	}

	parser := core.NewParser(s.Registry)
	_, rows, err := parser.Parse(ctx, bytes.NewReader(content), req.Delimiter)
	if err != nil {
		return ImportResult{}, err
	}

	builder := core.NewPayloadBuilder(s.Registry, s.Groups, s.Templates, s.Proxies, s.ProxyGroups)
	outcomes := make([]types.ImportOutcome, 0, len(rows))
	created := 0
	for _, row := range rows {
		outcome := s.importRow(ctx, builder, row)
		if !outcome.Failed() {
			created++
		}
		outcomes = append(outcomes, outcome)
	}

	reportPath, err := s.Output.WriteImportReport(outcomes)
	if err != nil {
		return ImportResult{}, err
	}
	if err := s.Staging.Delete(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to remove staged host file")
	}
	log.Ctx(ctx).Info().
		Int("created", created).
		Int("failed", len(outcomes)-created).
		Str("report", reportPath).
		Msg("import run completed")
	return ImportResult{
		Outcomes:   outcomes,
		Created:    created,
		Failed:     len(outcomes) - created,
		ReportPath: reportPath,
		State:      types.WorkflowImported,
	}, nil
}

func (s Service) importInput(req ImportRequest) ([]byte, error) {
	inputPath := strings.TrimSpace(req.InputPath)
	if inputPath != "" {
		content, err := readHostFile(inputPath)
		if err != nil {
			return nil, err
		}
		if _, err := s.Staging.Save(content); err != nil {
			return nil, err
		}
		return content, nil
	}
	if !s.Staging.Exists() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no staged host file, run preview first")
	}
	return s.Staging.Load()
}

func (s Service) importRow(ctx context.Context, builder *core.PayloadBuilder, row types.HostRecord) types.ImportOutcome {
	outcome := types.ImportOutcome{Line: row.Line, Host: row.Get(schema.KeyName)}
	payload, err := builder.Build(ctx, row)
	if err != nil {
		outcome.Failure = err.Error()
		log.Ctx(ctx).Error().
			Int("line", row.Line).
			Str("host", outcome.Host).
			Err(err).
			Msg("host skipped")
		return outcome
	}
	hostID, err := s.Hosts.CreateHost(ctx, payload)
	if err != nil {
		outcome.Failure = err.Error()
		log.Ctx(ctx).Error().
			Int("line", row.Line).
			Str("host", outcome.Host).
			Err(err).
			Msg("host creation failed")
		return outcome
	}
	outcome.HostID, err = strconv.ParseInt(hostID, 10, 64)
	if err != nil {
		log.Ctx(ctx).Warn().
			Str("host", outcome.Host).
			Str("hostid", hostID).
			Msg("api returned non-numeric host id")
	}
	log.Ctx(ctx).Info().
		Int("line", row.Line).
		Str("host", outcome.Host).
		Str("hostid", hostID).
		Msg("host created")
	return outcome
}
