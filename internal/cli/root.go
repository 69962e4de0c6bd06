package cli

import (
	"context"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zabbix-host-import/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "ZBX_HOST_IMPORT"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "zbx-host-import",
		Short:   "Bulk host importer for Zabbix",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			// core and app code log through the context
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().String("zabbix-url", "", "Zabbix api_jsonrpc.php endpoint URL")
	cmd.PersistentFlags().String("zabbix-token", "", "Zabbix API token")
	cmd.PersistentFlags().Int("timeout", 30, "API request timeout in seconds")
	cmd.PersistentFlags().String("staging-dir", "", "Directory for the staged host file")
	cmd.PersistentFlags().String("output-dir", ".", "Directory for reports and example files")
	cmd.PersistentFlags().StringArray("schema-overlay", nil, "Column overlay file paths, later files win")
	cmd.PersistentFlags().String("user", "", "Staging key, defaults to the process user")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("zabbix_url", cmd.PersistentFlags().Lookup("zabbix-url"))
	_ = viper.BindPFlag("zabbix_token", cmd.PersistentFlags().Lookup("zabbix-token"))
	_ = viper.BindPFlag("timeout_sec", cmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("staging_dir", cmd.PersistentFlags().Lookup("staging-dir"))
	_ = viper.BindPFlag("output_dir", cmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("schema_overlay", cmd.PersistentFlags().Lookup("schema-overlay"))
	_ = viper.BindPFlag("user", cmd.PersistentFlags().Lookup("user"))

	cmd.AddCommand(newColumnsCommand())
	cmd.AddCommand(newExampleCommand())
	cmd.AddCommand(newPreviewCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newCancelCommand())
	return cmd
}

func newAppService(ctx context.Context) (app.Service, error) {
	return app.NewService(ctx, app.ServiceConfig{
		Endpoint:       viper.GetString("zabbix_url"),
		Token:          viper.GetString("zabbix_token"),
		TimeoutSec:     viper.GetInt("timeout_sec"),
		StagingDir:     viper.GetString("staging_dir"),
		UserKey:        viper.GetString("user"),
		OutputDir:      viper.GetString("output_dir"),
		SchemaOverlays: viper.GetStringSlice("schema_overlay"),
	})
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("zbx-host-import")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/zbx-host-import")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
