// Package schema holds the recognized CSV column table. The table is
// built once at process start and stays immutable afterwards, apart from
// optional overlay files merged in during startup.
package schema

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
)

type ColumnKind string

const (
	// KindConfig columns feed host configuration (identity, groups,
	// interfaces, proxy assignment, templates).
	KindConfig ColumnKind = "config"
	// KindInventory columns map onto the host inventory object. The
	// inventory field name is the lowercased technical key.
	KindInventory ColumnKind = "inventory"
)

type ColumnSpec struct {
	Key      string
	Display  string
	Default  string
	Required bool
	Kind     ColumnKind
}

// InventoryField returns the remote inventory field name for an
// inventory column.
func (c ColumnSpec) InventoryField() string {
	return strings.ToLower(c.Key)
}

// Registry is the resolved column table. Technical keys are unique;
// NewRegistry asserts this at startup.
type Registry struct {
	specs []ColumnSpec
	byKey map[string]ColumnSpec
}

func NewRegistry(ctx context.Context) *Registry {
	reg := &Registry{byKey: make(map[string]ColumnSpec)}
	for _, spec := range builtinColumns() {
		_, dup := reg.byKey[spec.Key]
		assert.Assert(ctx, !dup, "duplicate column key: "+spec.Key)
		reg.specs = append(reg.specs, spec)
		reg.byKey[spec.Key] = spec
	}
	return reg
}

// Resolve matches a header cell against every column, case-insensitively,
// by technical key or display name. First match wins.
func (r *Registry) Resolve(header string) (ColumnSpec, bool) {
	trimmed := strings.TrimSpace(header)
	for _, spec := range r.specs {
		if strings.EqualFold(trimmed, spec.Key) || strings.EqualFold(trimmed, spec.Display) {
			return spec, true
		}
	}
	return ColumnSpec{}, false
}

func (r *Registry) Lookup(key string) (ColumnSpec, bool) {
	spec, ok := r.byKey[key]
	return spec, ok
}

// Specs returns the columns in table order.
func (r *Registry) Specs() []ColumnSpec {
	return append([]ColumnSpec(nil), r.specs...)
}

func (r *Registry) Required() []ColumnSpec {
	var required []ColumnSpec
	for _, spec := range r.specs {
		if spec.Required {
			required = append(required, spec)
		}
	}
	return required
}

func (r *Registry) InventoryColumns() []ColumnSpec {
	var inventory []ColumnSpec
	for _, spec := range r.specs {
		if spec.Kind == KindInventory {
			inventory = append(inventory, spec)
		}
	}
	return inventory
}

// Column keys referenced directly by the parser and payload builder.
const (
	KeyName           = "NAME"
	KeyVisibleName    = "VISIBLE_NAME"
	KeyHostGroups     = "HOST_GROUPS"
	KeyHostTags       = "HOST_TAGS"
	KeyHostMacros     = "HOST_MACROS"
	KeyProxy          = "PROXY"
	KeyProxyGroup     = "PROXY_GROUP"
	KeyTemplates      = "TEMPLATES"
	KeyStatus         = "STATUS"
	KeyDescription    = "DESCRIPTION"
	KeyAgentIP        = "AGENT_IP"
	KeyAgentDNS       = "AGENT_DNS"
	KeyAgentPort      = "AGENT_PORT"
	KeySNMPIP         = "SNMP_IP"
	KeySNMPDNS        = "SNMP_DNS"
	KeySNMPPort       = "SNMP_PORT"
	KeySNMPVersion    = "SNMP_VERSION"
	KeySNMPCommunity  = "SNMP_COMMUNITY"
	KeySNMPBulk       = "SNMP_BULK"
	KeySNMPMaxReps    = "SNMP_MAX_REPETITIONS"
	KeySNMPSecName    = "SNMP_SECURITY_NAME"
	KeySNMPSecLevel   = "SNMP_SECURITY_LEVEL"
	KeySNMPAuthPass   = "SNMP_AUTH_PASSPHRASE"
	KeySNMPPrivPass   = "SNMP_PRIV_PASSPHRASE"
	KeySNMPAuthProto  = "SNMP_AUTH_PROTOCOL"
	KeySNMPPrivProto  = "SNMP_PRIV_PROTOCOL"
	KeySNMPContext    = "SNMP_CONTEXT_NAME"
	KeyJMXIP          = "JMX_IP"
	KeyJMXDNS         = "JMX_DNS"
	KeyJMXPort        = "JMX_PORT"
)

func builtinColumns() []ColumnSpec {
	config := []ColumnSpec{
		{Key: KeyName, Display: "Name", Required: true},
		{Key: KeyVisibleName, Display: "Visible name"},
		{Key: KeyHostGroups, Display: "Host groups", Required: true},
		{Key: KeyHostTags, Display: "Host tags"},
		{Key: KeyHostMacros, Display: "Host macros"},
		{Key: KeyProxy, Display: "Proxy"},
		{Key: KeyProxyGroup, Display: "Proxy group"},
		{Key: KeyTemplates, Display: "Templates"},
		{Key: KeyStatus, Display: "Status"},
		{Key: KeyDescription, Display: "Description"},
		{Key: KeyAgentIP, Display: "Agent IP"},
		{Key: KeyAgentDNS, Display: "Agent DNS"},
		{Key: KeyAgentPort, Display: "Agent port", Default: "10050"},
		{Key: KeySNMPIP, Display: "SNMP IP"},
		{Key: KeySNMPDNS, Display: "SNMP DNS"},
		{Key: KeySNMPPort, Display: "SNMP port", Default: "161"},
		{Key: KeySNMPVersion, Display: "SNMP version"},
		{Key: KeySNMPCommunity, Display: "SNMP community", Default: "{$SNMP_COMMUNITY}"},
		{Key: KeySNMPBulk, Display: "SNMP bulk", Default: "1"},
		{Key: KeySNMPMaxReps, Display: "SNMP max repetitions", Default: "10"},
		{Key: KeySNMPSecName, Display: "SNMP security name"},
		{Key: KeySNMPSecLevel, Display: "SNMP security level"},
		{Key: KeySNMPAuthPass, Display: "SNMP auth passphrase"},
		{Key: KeySNMPPrivPass, Display: "SNMP priv passphrase"},
		{Key: KeySNMPAuthProto, Display: "SNMP auth protocol"},
		{Key: KeySNMPPrivProto, Display: "SNMP priv protocol"},
		{Key: KeySNMPContext, Display: "SNMP context name"},
		{Key: KeyJMXIP, Display: "JMX IP"},
		{Key: KeyJMXDNS, Display: "JMX DNS"},
		{Key: KeyJMXPort, Display: "JMX port", Default: "12345"},
	}
	for i := range config {
		config[i].Kind = KindConfig
	}

	inventory := []ColumnSpec{
		{Key: "ALIAS", Display: "Alias"},
		{Key: "ASSET_TAG", Display: "Asset tag"},
		{Key: "CHASSIS", Display: "Chassis"},
		{Key: "CONTACT", Display: "Contact person"},
		{Key: "CONTRACT_NUMBER", Display: "Contract number"},
		{Key: "DATE_HW_DECOMM", Display: "HW decommissioning date"},
		{Key: "DATE_HW_EXPIRY", Display: "HW maintenance expiry date"},
		{Key: "DATE_HW_INSTALL", Display: "HW installation date"},
		{Key: "DATE_HW_PURCHASE", Display: "HW purchase date"},
		{Key: "DEPLOYMENT_STATUS", Display: "Deployment status"},
		{Key: "HARDWARE", Display: "Hardware"},
		{Key: "HARDWARE_FULL", Display: "Detailed hardware"},
		{Key: "HOST_NETMASK", Display: "Host subnet mask"},
		{Key: "HOST_NETWORKS", Display: "Host networks"},
		{Key: "HOST_ROUTER", Display: "Host router"},
		{Key: "HW_ARCH", Display: "HW architecture"},
		{Key: "INSTALLER_NAME", Display: "Installer name"},
		{Key: "LOCATION", Display: "Location"},
		{Key: "LOCATION_LAT", Display: "Location latitude"},
		{Key: "LOCATION_LON", Display: "Location longitude"},
		{Key: "MACADDRESS_A", Display: "MAC address A"},
		{Key: "MACADDRESS_B", Display: "MAC address B"},
		{Key: "MODEL", Display: "Model"},
		{Key: "NOTES", Display: "Notes"},
		{Key: "OOB_IP", Display: "OOB IP address"},
		{Key: "OOB_NETMASK", Display: "OOB host subnet mask"},
		{Key: "OOB_ROUTER", Display: "OOB router"},
		{Key: "OS", Display: "OS name"},
		{Key: "OS_FULL", Display: "Detailed OS name"},
		{Key: "OS_SHORT", Display: "Short OS name"},
		{Key: "POC_1_CELL", Display: "Primary POC mobile number"},
		{Key: "POC_1_EMAIL", Display: "Primary email"},
		{Key: "POC_1_NAME", Display: "Primary POC name"},
		{Key: "POC_1_NOTES", Display: "Primary POC notes"},
		{Key: "POC_1_PHONE_A", Display: "Primary POC phone A"},
		{Key: "POC_1_PHONE_B", Display: "Primary POC phone B"},
		{Key: "POC_1_SCREEN", Display: "Primary POC screen name"},
		{Key: "POC_2_CELL", Display: "Secondary POC mobile number"},
		{Key: "POC_2_EMAIL", Display: "Secondary POC email"},
		{Key: "POC_2_NAME", Display: "Secondary POC name"},
		{Key: "POC_2_NOTES", Display: "Secondary POC notes"},
		{Key: "POC_2_PHONE_A", Display: "Secondary POC phone A"},
		{Key: "POC_2_PHONE_B", Display: "Secondary POC phone B"},
		{Key: "POC_2_SCREEN", Display: "Secondary POC screen name"},
		{Key: "SERIALNO_A", Display: "Serial number A"},
		{Key: "SERIALNO_B", Display: "Serial number B"},
		{Key: "SITE_ADDRESS_A", Display: "Site address A"},
		{Key: "SITE_ADDRESS_B", Display: "Site address B"},
		{Key: "SITE_ADDRESS_C", Display: "Site address C"},
		{Key: "SITE_CITY", Display: "Site city"},
		{Key: "SITE_COUNTRY", Display: "Site country"},
		{Key: "SITE_NOTES", Display: "Site notes"},
		{Key: "SITE_RACK", Display: "Site rack location"},
		{Key: "SITE_STATE", Display: "Site state"},
		{Key: "SITE_ZIP", Display: "Site ZIP/postal code"},
		{Key: "SOFTWARE", Display: "Software"},
		{Key: "SOFTWARE_APP_A", Display: "Software application A"},
		{Key: "SOFTWARE_APP_B", Display: "Software application B"},
		{Key: "SOFTWARE_APP_C", Display: "Software application C"},
		{Key: "SOFTWARE_APP_D", Display: "Software application D"},
		{Key: "SOFTWARE_APP_E", Display: "Software application E"},
		{Key: "SOFTWARE_FULL", Display: "Software details"},
		{Key: "TAG", Display: "Tag"},
		{Key: "TYPE", Display: "Type"},
		{Key: "TYPE_FULL", Display: "Type details"},
		{Key: "URL_A", Display: "URL A"},
		{Key: "URL_B", Display: "URL B"},
		{Key: "URL_C", Display: "URL C"},
		{Key: "VENDOR", Display: "Vendor"},
	}
	for i := range inventory {
		inventory[i].Kind = KindInventory
	}

	return append(config, inventory...)
}
