package types

type Delimiter string

const (
	DelimiterSemicolon Delimiter = "semicolon"
	DelimiterComma     Delimiter = "comma"
	DelimiterTab       Delimiter = "tab"
)

// Rune returns the field separator character for the delimiter. Unknown
// values fall back to semicolon, the importer's historical default.
func (d Delimiter) Rune() rune {
	switch d {
	case DelimiterComma:
		return ','
	case DelimiterTab:
		return '\t'
	default:
		return ';'
	}
}

type InterfaceType int

const (
	InterfaceTypeAgent InterfaceType = 1
	InterfaceTypeSNMP  InterfaceType = 2
	InterfaceTypeJMX   InterfaceType = 4
)

type SNMPVersion int

const (
	SNMPVersion1 SNMPVersion = 1
	SNMPVersion2 SNMPVersion = 2
	SNMPVersion3 SNMPVersion = 3
)

type MonitoredBy int

const (
	MonitoredByServer     MonitoredBy = 0
	MonitoredByProxy      MonitoredBy = 1
	MonitoredByProxyGroup MonitoredBy = 2
)

type WorkflowState string

const (
	WorkflowAwaitingUpload WorkflowState = "awaiting-upload"
	WorkflowPreviewing     WorkflowState = "previewing"
	WorkflowImported       WorkflowState = "imported"
)
