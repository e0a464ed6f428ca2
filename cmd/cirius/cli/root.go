package cli

import (
	"fmt"
	"os"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/versioncheck"
	"github.com/spf13/cobra"
)

const rootLong = `Cirius reads the four CSV exports of a legacy case system (fil.csv, sag.csv,
dokumentcdw.csv, notat.csv) from a directory and writes cirius.json: one nested
object per case with its documents, attachments, notes and files embedded.`

// NewRootCmd returns the root command for the cirius CLI.
func NewRootCmd() *cobra.Command {
	var compressFlag bool

	cmd := &cobra.Command{
		Use:           "cirius <folder>",
		Short:         "Cirius — denormalizes legacy case CSV exports into one JSON tree",
		Long:          rootLong,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			versioncheck.CheckAndNotify(cmd.OutOrStdout(), Version)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			cmd.SilenceUsage = true

			folder, err := EnsureInputDir(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}
			if err := EnsureInputFiles(folder); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return NewSilentError(err)
			}

			return runExport(cmd, folder, compressFlag)
		},
	}

	cmd.Flags().BoolVar(&compressFlag, "compress", false, "Write cirius.json.zst instead of cirius.json")

	cmd.SetVersionTemplate("cirius {{.Version}}\n")
	cmd.Version = Version

	// Register all subcommands.
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newStageCmd())
	cmd.AddCommand(newQueryCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cirius", Version)
			return nil
		},
	}
}

// Run executes the root command and exits with the appropriate code.
func Run() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !IsSilentError(err) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}
