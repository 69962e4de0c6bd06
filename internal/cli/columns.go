package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the recognized CSV columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runColumns(cmd.Context())
		},
	}
}

func runColumns(ctx context.Context) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result := service.Columns()
	fmt.Printf("%-22s %-30s %-20s %-9s %s\n", "KEY", "DISPLAY NAME", "DEFAULT", "REQUIRED", "KIND")
	for _, column := range result.Columns {
		required := ""
		if column.Required {
			required = "yes"
		}
		fmt.Printf("%-22s %-30s %-20s %-9s %s\n", column.Key, column.Display, column.Default, required, column.Kind)
	}
	return nil
}
