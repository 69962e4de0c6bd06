package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zabbix-host-import/internal/schema"
	"zabbix-host-import/internal/types"
)

type memStaging struct {
	data []byte
}

func (m *memStaging) Save(content []byte) (string, error) {
	if len(content) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no file content to stage")
	}
	m.data = append([]byte(nil), content...)
	return "mem://staged", nil
}

func (m *memStaging) Load() ([]byte, error) {
	if m.data == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("missing staged host file")
	}
	return m.data, nil
}

func (m *memStaging) Exists() bool { return m.data != nil }

func (m *memStaging) Delete() error {
	m.data = nil
	return nil
}

type memOutput struct {
	report   []types.ImportOutcome
	examples []types.Delimiter
}

func (m *memOutput) WriteImportReport(outcomes []types.ImportOutcome) (string, error) {
	m.report = append([]types.ImportOutcome(nil), outcomes...)
	return "mem://report", nil
}

func (m *memOutput) WriteExampleCSV(delimiter types.Delimiter) (string, error) {
	m.examples = append(m.examples, delimiter)
	return "mem://example", nil
}

type fakeAPI struct {
	groups         map[string]string
	templates      map[string]string
	proxies        map[string]string
	created        []types.HostPayload
	failHosts      map[string]string
	nextID         int
	hostIDOverride string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		groups:    map[string]string{},
		templates: map[string]string{},
		proxies:   map[string]string{},
		failHosts: map[string]string{},
		nextID:    10500,
	}
}

func (f *fakeAPI) FindGroup(_ context.Context, name string) (string, bool, error) {
	id, ok := f.groups[name]
	return id, ok, nil
}

func (f *fakeAPI) CreateGroup(_ context.Context, name string) (string, error) {
	id := fmt.Sprintf("g%d", len(f.groups)+1)
	f.groups[name] = id
	return id, nil
}

func (f *fakeAPI) FindTemplate(_ context.Context, name string) (string, bool, error) {
	id, ok := f.templates[name]
	return id, ok, nil
}

func (f *fakeAPI) FindProxy(_ context.Context, name string) (string, bool, error) {
	id, ok := f.proxies[name]
	return id, ok, nil
}

func (f *fakeAPI) FindProxyGroup(_ context.Context, name string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeAPI) CreateHost(_ context.Context, payload types.HostPayload) (string, error) {
	if reason, ok := f.failHosts[payload.Host]; ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(reason)
	}
	f.created = append(f.created, payload)
	if f.hostIDOverride != "" {
		return f.hostIDOverride, nil
	}
	f.nextID++
	return fmt.Sprintf("%d", f.nextID), nil
}

func newTestService(t *testing.T, api *fakeAPI) (Service, *memStaging, *memOutput) {
	t.Helper()
	staging := &memStaging{}
	output := &memOutput{}
	service := Service{
		Registry:    schema.NewRegistry(context.Background()),
		Groups:      api,
		Templates:   api,
		Proxies:     api,
		ProxyGroups: api,
		Hosts:       api,
		Staging:     staging,
		Output:      output,
	}
	return service, staging, output
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPreviewStagesAndParses(t *testing.T) {
	service, staging, _ := newTestService(t, newFakeAPI())
	path := writeInput(t, "NAME;HOST_GROUPS\nh1;G1\nh2;G1|G2\n")

	result, err := service.Preview(context.Background(), PreviewRequest{InputPath: path})
	require.NoError(t, err)

	assert.Equal(t, types.WorkflowPreviewing, result.State)
	assert.Equal(t, []string{schema.KeyName, schema.KeyHostGroups}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "h1", result.Rows[0].Get(schema.KeyName))
	assert.True(t, staging.Exists())
	assert.Equal(t, types.WorkflowPreviewing, service.State())
}

func TestPreviewColumnsSkipUnrecognizedHeaders(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	path := writeInput(t, "NAME;WHATEVER;HOST_GROUPS\nh1;junk;G1\n")

	result, err := service.Preview(context.Background(), PreviewRequest{InputPath: path})
	require.NoError(t, err)

	// the ignored WHATEVER column never shows up as a blank entry
	assert.Equal(t, []string{schema.KeyName, schema.KeyHostGroups}, result.Columns)
}

func TestPreviewParseFailureDiscardsStagedFile(t *testing.T) {
	service, staging, _ := newTestService(t, newFakeAPI())
	path := writeInput(t, "NAME;DESCRIPTION\nh1;something\n")

	_, err := service.Preview(context.Background(), PreviewRequest{InputPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
	assert.False(t, staging.Exists())
	assert.Equal(t, types.WorkflowAwaitingUpload, service.State())
}

func TestPreviewRequiresInputPath(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	_, err := service.Preview(context.Background(), PreviewRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestPreviewRejectsOversizedFile(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	path := filepath.Join(t.TempDir(), "huge.csv")
	require.NoError(t, os.WriteFile(path, []byte("NAME;HOST_GROUPS\n"), 0o600))
	require.NoError(t, os.Truncate(path, maxHostFileBytes+1))

	_, err := service.Preview(context.Background(), PreviewRequest{InputPath: path})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "upload limit")
}

func TestPreviewMissingFile(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	_, err := service.Preview(context.Background(), PreviewRequest{InputPath: "/nonexistent/hosts.csv"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestImportWithoutStagedFile(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	_, err := service.Import(context.Background(), ImportRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestImportFromStagedFile(t *testing.T) {
	api := newFakeAPI()
	service, staging, output := newTestService(t, api)
	path := writeInput(t, "NAME;HOST_GROUPS\nh1;G1\nh2;G1|G2\n")

	_, err := service.Preview(context.Background(), PreviewRequest{InputPath: path})
	require.NoError(t, err)

	result, err := service.Import(context.Background(), ImportRequest{})
	require.NoError(t, err)

	assert.Equal(t, types.WorkflowImported, result.State)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "mem://report", result.ReportPath)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, 2, result.Outcomes[0].Line)
	assert.Equal(t, "h1", result.Outcomes[0].Host)
	assert.Equal(t, int64(10501), result.Outcomes[0].HostID)
	assert.Equal(t, 3, result.Outcomes[1].Line)

	assert.False(t, staging.Exists(), "staged artifact removed after the run")
	assert.Len(t, output.report, 2)
	require.Len(t, api.created, 2)
	assert.Equal(t, "h1", api.created[0].Host)
}

func TestImportDirectInputPath(t *testing.T) {
	api := newFakeAPI()
	service, staging, _ := newTestService(t, api)
	path := writeInput(t, "NAME;HOST_GROUPS\nh1;G1\n")

	result, err := service.Import(context.Background(), ImportRequest{InputPath: path})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.False(t, staging.Exists())
}

func TestImportRowFailureContinuesBatch(t *testing.T) {
	api := newFakeAPI()
	api.failHosts["h1"] = `host "h1" already exists`
	service, _, _ := newTestService(t, api)
	path := writeInput(t, "NAME;HOST_GROUPS\nh1;G1\nh2;G1\n")

	result, err := service.Import(context.Background(), ImportRequest{InputPath: path})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Failed())
	assert.Contains(t, result.Outcomes[0].Failure, "already exists")
	assert.False(t, result.Outcomes[1].Failed())
	require.Len(t, api.created, 1)
	assert.Equal(t, "h2", api.created[0].Host)
}

func TestImportNonNumericHostIDWarnsButSucceeds(t *testing.T) {
	api := newFakeAPI()
	api.hostIDOverride = "oops"
	service, _, _ := newTestService(t, api)
	path := writeInput(t, "NAME;HOST_GROUPS\nh1;G1\n")

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	result, err := service.Import(ctx, ImportRequest{InputPath: path})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Outcomes, 1)
	assert.False(t, result.Outcomes[0].Failed())
	assert.Equal(t, int64(0), result.Outcomes[0].HostID)
	assert.Contains(t, buf.String(), "non-numeric host id")
}

func TestImportBuildFailureRecordedPerRow(t *testing.T) {
	api := newFakeAPI()
	service, _, _ := newTestService(t, api)
	path := writeInput(t, "NAME;HOST_GROUPS;TEMPLATES\nh1;G1;Missing template\nh2;G1;\n")

	result, err := service.Import(context.Background(), ImportRequest{InputPath: path})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 2)
	assert.Contains(t, result.Outcomes[0].Failure, `template "Missing template" on host "h1" not found`)
	assert.False(t, result.Outcomes[1].Failed())
}

func TestCancelDiscardsStagedFile(t *testing.T) {
	service, staging, _ := newTestService(t, newFakeAPI())
	_, err := staging.Save([]byte("NAME;HOST_GROUPS\nh1;G1\n"))
	require.NoError(t, err)

	result, err := service.Cancel(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, types.WorkflowAwaitingUpload, result.State)
	assert.False(t, staging.Exists())
}

func TestCancelWithoutStagedFile(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	result, err := service.Cancel(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Removed)
}

func TestColumnsListsRegistry(t *testing.T) {
	service, _, _ := newTestService(t, newFakeAPI())
	result := service.Columns()
	require.NotEmpty(t, result.Columns)

	assert.Equal(t, schema.KeyName, result.Columns[0].Key)
	assert.True(t, result.Columns[0].Required)

	byKey := map[string]ColumnInfo{}
	for _, column := range result.Columns {
		byKey[column.Key] = column
	}
	assert.Equal(t, "10050", byKey[schema.KeyAgentPort].Default)
	assert.Equal(t, string(schema.KindInventory), byKey["OS_FULL"].Kind)
}

func TestNewServiceAppliesOverlayLayersInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(first, []byte(
		"schema_version: \"1\"\ncolumns:\n  AGENT_PORT:\n    default: \"1050\"\n  SITE_CODE:\n    kind: inventory\n",
	), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(
		"schema_version: \"1\"\ncolumns:\n  AGENT_PORT:\n    default: \"2050\"\n",
	), 0o600))

	service, err := NewService(context.Background(), ServiceConfig{
		StagingDir:     t.TempDir(),
		OutputDir:      t.TempDir(),
		SchemaOverlays: []string{first, second},
	})
	require.NoError(t, err)

	byKey := map[string]ColumnInfo{}
	for _, column := range service.Columns().Columns {
		byKey[column.Key] = column
	}
	assert.Equal(t, "2050", byKey[schema.KeyAgentPort].Default, "later layer wins per key")
	assert.Equal(t, string(schema.KindInventory), byKey["SITE_CODE"].Kind)
}

func TestExampleDelegatesToOutput(t *testing.T) {
	service, _, output := newTestService(t, newFakeAPI())
	result, err := service.Example(context.Background(), ExampleRequest{Delimiter: types.DelimiterComma})
	require.NoError(t, err)
	assert.Equal(t, "mem://example", result.Path)
	assert.Equal(t, []types.Delimiter{types.DelimiterComma}, output.examples)
}
