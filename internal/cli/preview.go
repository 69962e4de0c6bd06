package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zabbix-host-import/internal/app"
	"zabbix-host-import/internal/schema"
)

type previewOptions struct {
	Input     string
	Delimiter string
}

func newPreviewCommand() *cobra.Command {
	opts := previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Stage a host CSV file and show what would be imported",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", "", "Host CSV file path")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "semicolon", "Field delimiter (semicolon, comma, tab)")
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("delimiter", cmd.Flags().Lookup("delimiter"))
	return cmd
}

func runPreview(ctx context.Context, cmd *cobra.Command, opts previewOptions) error {
	delimiter, err := parseDelimiter(resolveString(cmd, opts.Delimiter, "delimiter", "delimiter"))
	if err != nil {
		return err
	}
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Preview(ctx, app.PreviewRequest{
		InputPath: resolveString(cmd, opts.Input, "input", "input"),
		Delimiter: delimiter,
	})
	if err != nil {
		return err
	}

	fmt.Printf("staged: %s\n", result.StagedPath)
	fmt.Printf("columns: %s\n", strings.Join(result.Columns, ", "))
	fmt.Printf("hosts to import: %d\n", len(result.Rows))
	for _, row := range result.Rows {
		fmt.Printf("- line %d: %s (groups: %s)\n", row.Line, row.Get(schema.KeyName), row.Get(schema.KeyHostGroups))
	}
	fmt.Println("run 'import' to create these hosts, or 'cancel' to discard")
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
