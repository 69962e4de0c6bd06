package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zabbix-host-import/internal/app"
)

type importOptions struct {
	Input     string
	Delimiter string
}

func newImportCommand() *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create the staged hosts in Zabbix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", "", "Host CSV file path, skips the preview step")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "semicolon", "Field delimiter (semicolon, comma, tab)")
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("delimiter", cmd.Flags().Lookup("delimiter"))
	return cmd
}

func runImport(ctx context.Context, cmd *cobra.Command, opts importOptions) error {
	delimiter, err := parseDelimiter(resolveString(cmd, opts.Delimiter, "delimiter", "delimiter"))
	if err != nil {
		return err
	}
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Import(ctx, app.ImportRequest{
		InputPath: resolveString(cmd, opts.Input, "input", "input"),
		Delimiter: delimiter,
	})
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes {
		if outcome.Failed() {
			fmt.Printf("- line %d: %s failed: %s\n", outcome.Line, outcome.Host, outcome.Failure)
			continue
		}
		fmt.Printf("- line %d: %s created (hostid %d)\n", outcome.Line, outcome.Host, outcome.HostID)
	}
	fmt.Printf("created %d of %d hosts, report: %s\n", result.Created, len(result.Outcomes), result.ReportPath)
	return nil
}
