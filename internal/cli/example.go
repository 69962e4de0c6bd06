package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zabbix-host-import/internal/app"
	"zabbix-host-import/internal/types"
)

type exampleOptions struct {
	Delimiter string
}

func newExampleCommand() *cobra.Command {
	opts := exampleOptions{}
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write a sample host CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExample(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "semicolon", "Field delimiter (semicolon, comma, tab)")
	_ = viper.BindPFlag("delimiter", cmd.Flags().Lookup("delimiter"))
	return cmd
}

func runExample(ctx context.Context, cmd *cobra.Command, opts exampleOptions) error {
	delimiter, err := parseDelimiter(resolveString(cmd, opts.Delimiter, "delimiter", "delimiter"))
	if err != nil {
		return err
	}
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Example(ctx, app.ExampleRequest{Delimiter: delimiter})
	if err != nil {
		return err
	}
	fmt.Printf("wrote example file: %s\n", result.Path)
	return nil
}

func parseDelimiter(value string) (types.Delimiter, error) {
	switch types.Delimiter(strings.ToLower(strings.TrimSpace(value))) {
	case types.DelimiterSemicolon, "":
		return types.DelimiterSemicolon, nil
	case types.DelimiterComma:
		return types.DelimiterComma, nil
	case types.DelimiterTab:
		return types.DelimiterTab, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown delimiter %q, expected semicolon, comma or tab", value))
	}
}
