package app

import (
	"context"
	"strings"

	"zabbix-host-import/internal/adapters"
	"zabbix-host-import/internal/ports"
	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/shared"
)

type Service struct {
	Registry    *schema.Registry
	Groups      ports.GroupService
	Templates   ports.TemplateService
	Proxies     ports.ProxyService
	ProxyGroups ports.ProxyGroupService
	Hosts       ports.HostService
	Staging     ports.StagingStore
	Output      ports.OutputPort
}

type ServiceConfig struct {
	Endpoint       string
	Token          string
	TimeoutSec     int
	StagingDir     string
	UserKey        string
	OutputDir      string
	SchemaOverlays []string
}

func NewService(ctx context.Context, cfg ServiceConfig) (Service, error) {
	registry := schema.NewRegistry(ctx)
	// overlay layers apply in order, later files win per key
	for _, overlay := range cfg.SchemaOverlays {
		overlay = strings.TrimSpace(overlay)
		if overlay == "" {
			continue
		}
		if err := registry.ApplyOverlay(overlay); err != nil {
			return Service{}, err
		}
	}
	userKey := strings.TrimSpace(cfg.UserKey)
	if userKey == "" {
		userKey = shared.CurrentUserKey()
	}
	outputDir := strings.TrimSpace(cfg.OutputDir)
	if outputDir == "" {
		outputDir = "."
	}
	api := adapters.NewZabbixAPIAdapter(cfg.Endpoint, cfg.Token, cfg.TimeoutSec)
	return Service{
		Registry:    registry,
		Groups:      api,
		Templates:   api,
		Proxies:     api,
		ProxyGroups: api,
		Hosts:       api,
		Staging:     adapters.NewStagingFileAdapter(cfg.StagingDir, userKey),
		Output:      adapters.NewOutputFileAdapter(outputDir),
	}, nil
}

// Columns lists every recognized column in registration order.
func (s Service) Columns() ColumnsResult {
	specs := s.Registry.Specs()
	columns := make([]ColumnInfo, 0, len(specs))
	for _, spec := range specs {
		columns = append(columns, ColumnInfo{
			Key:      spec.Key,
			Display:  spec.Display,
			Default:  spec.Default,
			Required: spec.Required,
			Kind:     string(spec.Kind),
		})
	}
	return ColumnsResult{Columns: columns}
}

// Example writes a sample host file using the requested delimiter.
func (s Service) Example(ctx context.Context, req ExampleRequest) (ExampleResult, error) {
	path, err := s.Output.WriteExampleCSV(req.Delimiter)
	if err != nil {
		return ExampleResult{}, err
	}
	return ExampleResult{Path: path}, nil
}
