package cli

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zabbix-host-import/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"columns", "example", "preview", "import", "cancel"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandConnectionFlags(t *testing.T) {
	root := newRootCommand()
	flags := []string{
		"config", "log-level", "zabbix-url", "zabbix-token",
		"timeout", "staging-dir", "output-dir", "schema-overlay", "user",
	}
	for _, name := range flags {
		flag := root.PersistentFlags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestSchemaOverlayFlagRepeatable(t *testing.T) {
	root := newRootCommand()
	flag := root.PersistentFlags().Lookup("schema-overlay")
	require.NotNil(t, flag)
	assert.Equal(t, "stringArray", flag.Value.Type())

	require.NoError(t, root.PersistentFlags().Set("schema-overlay", "first.yaml"))
	require.NoError(t, root.PersistentFlags().Set("schema-overlay", "second.yaml"))
	values, err := root.PersistentFlags().GetStringArray("schema-overlay")
	require.NoError(t, err)
	assert.Equal(t, []string{"first.yaml", "second.yaml"}, values)
}

func TestSubcommandContextCarriesLogger(t *testing.T) {
	root := newRootCommand()
	var captured context.Context
	root.AddCommand(&cobra.Command{
		Use: "capture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			captured = cmd.Context()
			return nil
		},
	})
	root.SetArgs([]string{"capture"})
	require.NoError(t, root.Execute())

	require.NotNil(t, captured)
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(captured).GetLevel(),
		"subcommands must see the configured logger, not the disabled fallback")
}

func TestPreviewCommandFlags(t *testing.T) {
	cmd := newPreviewCommand()
	assert.NotNil(t, cmd.Flags().Lookup("input"))
	assert.NotNil(t, cmd.Flags().Lookup("delimiter"))
}

func TestImportCommandFlags(t *testing.T) {
	cmd := newImportCommand()
	assert.NotNil(t, cmd.Flags().Lookup("input"))
	assert.NotNil(t, cmd.Flags().Lookup("delimiter"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFlagChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
	assert.False(t, flagChanged(nil, "myflag"), "nil command")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		value    string
		expected types.Delimiter
	}{
		{value: "semicolon", expected: types.DelimiterSemicolon},
		{value: "", expected: types.DelimiterSemicolon},
		{value: "Comma", expected: types.DelimiterComma},
		{value: " tab ", expected: types.DelimiterTab},
	}
	for _, tt := range tests {
		got, err := parseDelimiter(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}

	_, err := parseDelimiter("pipe")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "failed precondition",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("no staged host file, run preview first"),
			expected: 3,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("missing staged host file"),
			expected: 4,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
