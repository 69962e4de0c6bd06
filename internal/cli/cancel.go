package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard the staged host file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCancel(cmd.Context())
		},
	}
}

func runCancel(ctx context.Context) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Cancel(ctx)
	if err != nil {
		return err
	}
	if result.Removed {
		fmt.Println("staged host file discarded")
		return nil
	}
	fmt.Println("nothing staged")
	return nil
}
