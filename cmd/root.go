package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/subdivx-grabber/internal/app"
	"github.com/oshokin/subdivx-grabber/internal/client/subdivx"
	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/logger"
	"github.com/oshokin/subdivx-grabber/internal/version"
)

// rootArgsCount is the number of positional arguments: path, series name, episode id and quality.
const rootArgsCount = 4

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   logger.Name + " [flags] <path> <series_name> <series_id> <series_quality>",
		Short: "Download the best matching subtitles for a TV episode from subdivx.",
		Long: `Subdivx Grabber searches subdivx for a series episode, picks the result whose
description best matches the requested name, episode and quality, and downloads it.

Zip archives are unpacked next to the given path (only subtitle files are kept),
RAR archives are saved as "<path>/<series_name> <series_id> <series_quality>.rar".

Example:
  subdivx-grabber ~/Videos "Show Name" 1x01 720p`,
		Args:             cobra.ExactArgs(rootArgsCount),
		Version:          version.Short(),
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRun: initConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				return fmt.Errorf("failed to parse flags: %w", err)
			}

			return app.ExecuteRootCommand(cmd.Context(), appConfig, requestFromArgs(args))
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	err := executeContext(ctx, rootCmd)

	stop()
	cobra.CheckErr(err)
}

// executeContext runs cmd in its own goroutine and waits for it to return,
// so a signal cancels ctx but never cuts the command's cleanup short.
func executeContext(ctx context.Context, cmd *cobra.Command) error {
	done := make(chan error, 1)

	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	return <-done
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.SetVersionTemplate(logger.Name + " " + version.Full() + "\n")

	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.BoolP(
		"quiet",
		"q",
		false,
		"do not log to the console and hide the progress bar.")

	rootCmdFlags.StringP(
		"log-level",
		"l",
		"",
		"log level: debug, info, warn or error.")

	rootCmdFlags.String(
		"log-file",
		"",
		fmt.Sprintf("path to the rotating log file (default is '%s').", config.DefaultLogFile))
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("quiet"); flag != nil && flag.Changed {
		cfg.Quiet, _ = flags.GetBool("quiet")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("log-file"); flag != nil && flag.Changed {
		cfg.LogFile, _ = flags.GetString("log-file")
	}

	return config.ValidateConfig(cfg)
}

func requestFromArgs(args []string) app.Request {
	return app.Request{
		OutputDir: args[0],
		Query: subdivx.SearchQuery{
			SeriesName:    args[1],
			SeriesID:      args[2],
			SeriesQuality: args[3],
		},
	}
}
