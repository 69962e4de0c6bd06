package app

import "zabbix-host-import/internal/types"

type ColumnInfo struct {
	Key      string
	Display  string
	Default  string
	Required bool
	Kind     string
}

type ColumnsResult struct {
	Columns []ColumnInfo
}

type ExampleRequest struct {
	Delimiter types.Delimiter
}

type ExampleResult struct {
	Path string
}

type PreviewRequest struct {
	InputPath string
	Delimiter types.Delimiter
}

type PreviewResult struct {
	StagedPath string
	Columns    []string
	Rows       []types.HostRecord
	State      types.WorkflowState
}

type ImportRequest struct {
	InputPath string
	Delimiter types.Delimiter
}

type ImportResult struct {
	Outcomes   []types.ImportOutcome
	Created    int
	Failed     int
	ReportPath string
	State      types.WorkflowState
}

type CancelResult struct {
	Removed bool
	State   types.WorkflowState
}
