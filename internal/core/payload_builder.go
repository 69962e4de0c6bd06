package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/policies"
	"zabbix-host-import/internal/ports"
	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/types"
)

// PayloadBuilder turns one validated row into a host.create payload,
// resolving every named reference through the remote services. A builder
// instance spans one import run; its group cache guarantees a single
// create call per distinct group name within the run.
type PayloadBuilder struct {
	Registry    *schema.Registry
	Groups      ports.GroupService
	Templates   ports.TemplateService
	Proxies     ports.ProxyService
	ProxyGroups ports.ProxyGroupService
	Policy      policies.ProxyPolicy

	groupIDs map[string]string
}

func NewPayloadBuilder(
	registry *schema.Registry,
	groups ports.GroupService,
	templates ports.TemplateService,
	proxies ports.ProxyService,
	proxyGroups ports.ProxyGroupService,
) *PayloadBuilder {
	return &PayloadBuilder{
		Registry:    registry,
		Groups:      groups,
		Templates:   templates,
		Proxies:     proxies,
		ProxyGroups: proxyGroups,
		Policy:      policies.NewProxyPolicy(),
		groupIDs:    make(map[string]string),
	}
}

func (b *PayloadBuilder) Build(ctx context.Context, rec types.HostRecord) (types.HostPayload, error) {
	payload := types.HostPayload{Host: rec.Get(schema.KeyName)}

	if name := rec.Get(schema.KeyVisibleName); name != "" {
		payload.Name = name
	}
	if description := rec.Get(schema.KeyDescription); description != "" {
		payload.Description = description
	}

	if err := b.buildGroups(ctx, rec, &payload); err != nil {
		return types.HostPayload{}, err
	}
	b.buildTags(rec, &payload)
	b.buildMacros(rec, &payload)
	b.buildInventory(rec, &payload)
	if err := b.buildProxy(ctx, rec, &payload); err != nil {
		return types.HostPayload{}, err
	}
	if err := b.buildTemplates(ctx, rec, &payload); err != nil {
		return types.HostPayload{}, err
	}
	if err := b.buildInterfaces(rec, &payload); err != nil {
		return types.HostPayload{}, err
	}
	if err := b.buildStatus(rec, &payload); err != nil {
		return types.HostPayload{}, err
	}

	log.Ctx(ctx).Debug().Str("host", payload.Host).Msg("payload built")
	return payload, nil
}

func (b *PayloadBuilder) buildGroups(ctx context.Context, rec types.HostRecord, payload *types.HostPayload) error {
	for _, name := range DecodeList(rec.Get(schema.KeyHostGroups)) {
		id, err := b.resolveGroup(ctx, name)
		if err != nil {
			return err
		}
		payload.Groups = append(payload.Groups, types.GroupRef{GroupID: id})
	}
	return nil
}

// resolveGroup looks a group up by exact name and creates it when
// missing. Resolved ids are cached for the lifetime of the builder.
func (b *PayloadBuilder) resolveGroup(ctx context.Context, name string) (string, error) {
	if id, ok := b.groupIDs[name]; ok {
		return id, nil
	}
	id, found, err := b.Groups.FindGroup(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		id, err = b.Groups.CreateGroup(ctx, name)
		if err != nil {
			return "", err
		}
		log.Ctx(ctx).Info().Str("group", name).Str("groupid", id).Msg("host group created")
	}
	b.groupIDs[name] = id
	return id, nil
}

func (b *PayloadBuilder) buildTags(rec types.HostRecord, payload *types.HostPayload) {
	for _, pair := range DecodeKeyedList(rec.Get(schema.KeyHostTags)) {
		tag := types.HostTag{Tag: pair.Key}
		if pair.HasValue {
			value := pair.Value
			tag.Value = &value
		}
		payload.Tags = append(payload.Tags, tag)
	}
}

func (b *PayloadBuilder) buildMacros(rec types.HostRecord, payload *types.HostPayload) {
	for _, pair := range DecodeKeyedList(rec.Get(schema.KeyHostMacros)) {
		// unlike tags, a value-less macro gets an explicit empty value
		payload.Macros = append(payload.Macros, types.HostMacro{Macro: pair.Key, Value: pair.Value})
	}
}

func (b *PayloadBuilder) buildInventory(rec types.HostRecord, payload *types.HostPayload) {
	for _, spec := range b.Registry.InventoryColumns() {
		value := rec.Get(spec.Key)
		if value == "" {
			continue
		}
		if payload.Inventory == nil {
			payload.Inventory = make(map[string]string)
		}
		payload.Inventory[spec.InventoryField()] = value
	}
	if payload.Inventory != nil {
		manual := 0
		payload.InventoryMode = &manual
	}
}

func (b *PayloadBuilder) buildProxy(ctx context.Context, rec types.HostRecord, payload *types.HostPayload) error {
	proxy := rec.Get(schema.KeyProxy)
	proxyGroup := rec.Get(schema.KeyProxyGroup)
	if err := b.Policy.Check(payload.Host, proxy, proxyGroup); err != nil {
		return err
	}
	if proxy != "" {
		id, found, err := b.Proxies.FindProxy(ctx, proxy)
		if err != nil {
			return err
		}
		if !found {
			return referenceNotFound("proxy", proxy, payload.Host)
		}
		mode := types.MonitoredByProxy
		payload.MonitoredBy = &mode
		payload.ProxyID = id
	}
	if proxyGroup != "" {
		id, found, err := b.ProxyGroups.FindProxyGroup(ctx, proxyGroup)
		if err != nil {
			return err
		}
		if !found {
			return referenceNotFound("proxy group", proxyGroup, payload.Host)
		}
		mode := types.MonitoredByProxyGroup
		payload.MonitoredBy = &mode
		payload.ProxyGroupID = id
	}
	return nil
}

func (b *PayloadBuilder) buildTemplates(ctx context.Context, rec types.HostRecord, payload *types.HostPayload) error {
	for _, name := range DecodeList(rec.Get(schema.KeyTemplates)) {
		id, found, err := b.Templates.FindTemplate(ctx, name)
		if err != nil {
			return err
		}
		if !found {
			return referenceNotFound("template", name, payload.Host)
		}
		payload.Templates = append(payload.Templates, types.TemplateRef{TemplateID: id})
	}
	return nil
}

func (b *PayloadBuilder) buildInterfaces(rec types.HostRecord, payload *types.HostPayload) error {
	agent, err := b.plainInterface(rec, types.InterfaceTypeAgent, schema.KeyAgentIP, schema.KeyAgentDNS, schema.KeyAgentPort, 10050)
	if err != nil {
		return err
	}
	if agent != nil {
		payload.Interfaces = append(payload.Interfaces, *agent)
	}

	snmp, err := b.plainInterface(rec, types.InterfaceTypeSNMP, schema.KeySNMPIP, schema.KeySNMPDNS, schema.KeySNMPPort, 161)
	if err != nil {
		return err
	}
	if snmp != nil {
		details, err := b.snmpDetails(rec, payload.Host)
		if err != nil {
			return err
		}
		snmp.Details = details
		payload.Interfaces = append(payload.Interfaces, *snmp)
	}

	jmx, err := b.plainInterface(rec, types.InterfaceTypeJMX, schema.KeyJMXIP, schema.KeyJMXDNS, schema.KeyJMXPort, 12345)
	if err != nil {
		return err
	}
	if jmx != nil {
		payload.Interfaces = append(payload.Interfaces, *jmx)
	}
	return nil
}

// plainInterface returns nil when neither IP nor DNS is given for the
// interface family.
func (b *PayloadBuilder) plainInterface(rec types.HostRecord, ifType types.InterfaceType, ipKey string, dnsKey string, portKey string, defaultPort int) (*types.Interface, error) {
	ip := rec.Get(ipKey)
	dns := rec.Get(dnsKey)
	if ip == "" && dns == "" {
		return nil, nil
	}
	port, err := b.parsePort(rec, portKey, defaultPort)
	if err != nil {
		return nil, err
	}
	iface := types.Interface{
		Type: ifType,
		Main: 1,
		IP:   ip,
		DNS:  dns,
		Port: port,
	}
	if ip != "" {
		iface.UseIP = 1
	}
	return &iface, nil
}

func (b *PayloadBuilder) parsePort(rec types.HostRecord, key string, defaultPort int) (int, error) {
	raw := rec.Get(key)
	if raw == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid port %q in column %s", raw, key)).
			WithCause(err)
	}
	return port, nil
}

// snmpDetails builds the version-3 security block for SNMPv3 rows and
// the community block otherwise.
func (b *PayloadBuilder) snmpDetails(rec types.HostRecord, host string) (*types.SNMPDetails, error) {
	version := types.SNMPVersion1
	if raw := rec.Get(schema.KeySNMPVersion); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid SNMP version %q on host %q", raw, host)).
				WithCause(err)
		}
		version = types.SNMPVersion(parsed)
	}

	details := &types.SNMPDetails{Version: version, Bulk: 1, MaxRepetitions: 10}
	if bulk, err := b.optionalInt(rec, schema.KeySNMPBulk, host); err != nil {
		return nil, err
	} else if bulk != nil {
		details.Bulk = *bulk
	}
	if reps, err := b.optionalInt(rec, schema.KeySNMPMaxReps, host); err != nil {
		return nil, err
	} else if reps != nil {
		details.MaxRepetitions = *reps
	}

	if version != types.SNMPVersion3 {
		details.Community = rec.Get(schema.KeySNMPCommunity)
		return details, nil
	}

	details.SecurityName = rec.Get(schema.KeySNMPSecName)
	level, err := b.optionalInt(rec, schema.KeySNMPSecLevel, host)
	if err != nil {
		return nil, err
	}
	if level == nil {
		noAuthNoPriv := 0
		level = &noAuthNoPriv
	}
	details.SecurityLevel = level
	details.AuthPassphrase = rec.Get(schema.KeySNMPAuthPass)
	details.PrivPassphrase = rec.Get(schema.KeySNMPPrivPass)
	if proto, err := b.optionalInt(rec, schema.KeySNMPAuthProto, host); err != nil {
		return nil, err
	} else if proto != nil {
		details.AuthProtocol = proto
	}
	if proto, err := b.optionalInt(rec, schema.KeySNMPPrivProto, host); err != nil {
		return nil, err
	} else if proto != nil {
		details.PrivProtocol = proto
	}
	details.ContextName = rec.Get(schema.KeySNMPContext)
	return details, nil
}

func (b *PayloadBuilder) optionalInt(rec types.HostRecord, key string, host string) (*int, error) {
	raw := rec.Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid numeric value %q in column %s on host %q", raw, key, host)).
			WithCause(err)
	}
	return &value, nil
}

func (b *PayloadBuilder) buildStatus(rec types.HostRecord, payload *types.HostPayload) error {
	raw := rec.Get(schema.KeyStatus)
	if raw == "" {
		return nil
	}
	status, err := strconv.Atoi(raw)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid status %q on host %q", raw, payload.Host)).
			WithCause(err)
	}
	payload.Status = &status
	return nil
}

func referenceNotFound(kind string, name string, host string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s %q on host %q not found", kind, name, host))
}
