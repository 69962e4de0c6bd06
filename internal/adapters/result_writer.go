package adapters

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"zabbix-host-import/internal/ports"
	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/types"
)

// OutputFileAdapter writes import artifacts into a directory.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

// WriteImportReport writes one line per imported row, in original row
// order, with either the created host id or the failure reason.
func (a OutputFileAdapter) WriteImportReport(outcomes []types.ImportOutcome) (string, error) {
	path, err := a.ensurePath("import-report.csv")
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create import report").
			WithCause(err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	if err := writer.Write([]string{"LINE", "NAME", "HOSTID", "ERROR"}); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write import report").
			WithCause(err)
	}
	for _, outcome := range outcomes {
		hostID := ""
		if !outcome.Failed() {
			hostID = strconv.FormatInt(outcome.HostID, 10)
		}
		row := []string{strconv.Itoa(outcome.Line), outcome.Host, hostID, outcome.Failure}
		if err := writer.Write(row); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write import report").
				WithCause(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write import report").
			WithCause(err)
	}
	return path, nil
}

// WriteExampleCSV writes a minimal sample host file using the chosen
// delimiter, covering the common column set.
func (a OutputFileAdapter) WriteExampleCSV(delimiter types.Delimiter) (string, error) {
	path, err := a.ensurePath("hosts-example.csv")
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create example file").
			WithCause(err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delimiter.Rune()
	rows := [][]string{
		{
			schema.KeyName, schema.KeyVisibleName, schema.KeyHostGroups, schema.KeyHostTags,
			schema.KeyTemplates, schema.KeyAgentIP, schema.KeyAgentDNS, schema.KeySNMPIP,
			schema.KeySNMPVersion, schema.KeyDescription,
		},
		{
			"srv-web-01", "Web server 01", "Linux servers|Web servers", "env=prod|www",
			"Linux by Zabbix agent", "192.0.2.10", "", "", "", "Primary web server",
		},
		{
			"srv-sw-01", "Core switch", "Network devices", "env=prod",
			"", "", "", "192.0.2.20", "2", "Core switch, first floor",
		},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write example file").
				WithCause(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write example file").
			WithCause(err)
	}
	return path, nil
}

func (a OutputFileAdapter) ensurePath(name string) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, name), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
