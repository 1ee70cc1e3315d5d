package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/subdivx-grabber/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		// The file may not exist yet, so the root configuration is not loaded.
		PersistentPreRun: func(*cobra.Command, []string) {},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Writes the default configuration as YAML to the file given with --config,
or to the default configuration file in the current folder.

Every key can also be set with a SUBDIVX_<KEY> environment variable,
for example SUBDIVX_LOG_LEVEL=info.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overwrite, _ := cmd.Flags().GetBool("force")

			return app.ExecuteConfigInitCommand(cmd.Context(), configFilenameFromFlag, overwrite)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing configuration file.")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
