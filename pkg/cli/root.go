// Package cli implements the analytics command-line tool.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sales-analytics/internal/config"
	"sales-analytics/internal/domain"
	"sales-analytics/internal/service/analytics"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				errObj["code"] = ve.Code
				errObj["field"] = ve.Field
			}
			_ = PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// app holds what the subcommands share once flags and environment are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// service builds the analytics service for the resolved configuration.
func (a *app) service() (*analytics.Service, error) {
	reg, err := analytics.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	placeholder, err := analytics.PlaceholderFormat(a.cfg.Placeholder)
	if err != nil {
		return nil, err
	}
	compiler := analytics.NewCompiler(reg, analytics.CompilerOptions{
		Placeholder:  placeholder,
		DefaultLimit: a.cfg.DefaultLimit,
		MaxLimit:     a.cfg.MaxLimit,
	})
	return analytics.NewService(compiler, a.cfg.BatchConcurrency, a.logger), nil
}

func newRootCmd() *cobra.Command {
	var (
		output  string
		envFile string
		verbose bool
	)
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "analytics",
		Short:         "Sales analytics query compiler",
		Long:          "Compiles declarative sales analytics requests into parameterized SQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("ANALYTICS_OUTPUT"); v != "" {
					output = v
				} else {
					output = defaultOutputFormat(os.Stdout)
				}
				// Keep the flag in sync so Execute renders errors the same way.
				_ = cmd.Root().PersistentFlags().Set("output", output)
			}
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := cfg.SlogLevel()
			if verbose {
				level = slog.LevelDebug
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			for _, w := range cfg.Warnings {
				a.logger.Warn(w)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCompileCmd(a))
	rootCmd.AddCommand(newVocabularyCmd(a))
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
