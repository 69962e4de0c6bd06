package ports

import "zabbix-host-import/internal/types"

// OutputPort writes import artifacts into the configured output
// directory and returns the written path.
type OutputPort interface {
	WriteImportReport(outcomes []types.ImportOutcome) (string, error)
	WriteExampleCSV(delimiter types.Delimiter) (string, error)
}
