package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "otagen",
		Short: "Generate OTA metadata records for device builds",
		Long: `Otagen reads a flashable archive named
OS_device-version-YYYYMMDD-HHMM-buildtype.zip, hashes it and writes the
JSON record served by the update-check service.

Records are written to <device>.json, or <device>_pre.json for pre-releases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default otagen.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())

	return rootCmd
}
