package types

// HostPayload is the host.create request body sent to the Zabbix API.
// Identifier fields are strings because the API represents every id as a
// decimal string.
type HostPayload struct {
	Host          string            `json:"host"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	Status        *int              `json:"status,omitempty"`
	Groups        []GroupRef        `json:"groups,omitempty"`
	Templates     []TemplateRef     `json:"templates,omitempty"`
	Tags          []HostTag         `json:"tags,omitempty"`
	Macros        []HostMacro       `json:"macros,omitempty"`
	Interfaces    []Interface       `json:"interfaces,omitempty"`
	MonitoredBy   *MonitoredBy      `json:"monitored_by,omitempty"`
	ProxyID       string            `json:"proxyid,omitempty"`
	ProxyGroupID  string            `json:"proxy_groupid,omitempty"`
	InventoryMode *int              `json:"inventory_mode,omitempty"`
	Inventory     map[string]string `json:"inventory,omitempty"`
}

type GroupRef struct {
	GroupID string `json:"groupid"`
}

type TemplateRef struct {
	TemplateID string `json:"templateid"`
}

// HostTag omits the value field entirely for value-less tags but sends
// an explicit empty string for "tag=", while HostMacro always carries a
// value. The asymmetry matches how the remote API treats the two field
// kinds.
type HostTag struct {
	Tag   string  `json:"tag"`
	Value *string `json:"value,omitempty"`
}

type HostMacro struct {
	Macro string `json:"macro"`
	Value string `json:"value"`
}

type Interface struct {
	Type    InterfaceType `json:"type"`
	Main    int           `json:"main"`
	UseIP   int           `json:"useip"`
	IP      string        `json:"ip"`
	DNS     string        `json:"dns"`
	Port    int           `json:"port"`
	Details *SNMPDetails  `json:"details,omitempty"`
}

// SNMPDetails carries either the community block (versions 1 and 2) or
// the version-3 security block, never both. Bulk and MaxRepetitions
// apply to every version.
type SNMPDetails struct {
	Version        SNMPVersion `json:"version"`
	Bulk           int         `json:"bulk"`
	MaxRepetitions int         `json:"max_repetitions"`
	Community      string      `json:"community,omitempty"`
	SecurityName   string      `json:"securityname,omitempty"`
	SecurityLevel  *int        `json:"securitylevel,omitempty"`
	AuthPassphrase string      `json:"authpassphrase,omitempty"`
	PrivPassphrase string      `json:"privpassphrase,omitempty"`
	AuthProtocol   *int        `json:"authprotocol,omitempty"`
	PrivProtocol   *int        `json:"privprotocol,omitempty"`
	ContextName    string      `json:"contextname,omitempty"`
}
