package ports

import (
	"context"

	"zabbix-host-import/internal/types"
)

// The Zabbix API represents every identifier as a decimal string; the
// ports keep that representation and leave numeric parsing to callers.

type GroupService interface {
	// FindGroup resolves a host group by exact name. The second return
	// is false when no group with that name exists.
	FindGroup(ctx context.Context, name string) (string, bool, error)
	CreateGroup(ctx context.Context, name string) (string, error)
}

type TemplateService interface {
	FindTemplate(ctx context.Context, name string) (string, bool, error)
}

type ProxyService interface {
	FindProxy(ctx context.Context, name string) (string, bool, error)
}

type ProxyGroupService interface {
	FindProxyGroup(ctx context.Context, name string) (string, bool, error)
}

type HostService interface {
	CreateHost(ctx context.Context, payload types.HostPayload) (string, error)
}
