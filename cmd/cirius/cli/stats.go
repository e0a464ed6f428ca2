package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <folder>",
		Short: "Run the join and print summary statistics without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			return runStats(cmd, folder)
		},
	}
}

func runStats(cmd *cobra.Command, folder string) error {
	session, err := buildTree(cmd, folder)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := session.Stats

	fmt.Fprintf(out, "files indexed:        %d\n", st.FilesIndexed)
	fmt.Fprintf(out, "cases:                %d", st.Cases)
	if st.DuplicateCases > 0 {
		fmt.Fprintf(out, " (%d duplicate case numbers)", st.DuplicateCases)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "documents:            %d", st.Documents)
	if st.DuplicateDocuments > 0 {
		fmt.Fprintf(out, " (%d duplicate rows collapsed)", st.DuplicateDocuments)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "attachments:          %d\n", st.Attachments)
	fmt.Fprintf(out, "notes:                %d\n", st.Notes)
	fmt.Fprintf(out, "orphaned documents:   %d\n", st.OrphanDocuments)
	fmt.Fprintf(out, "orphaned attachments: %d\n", st.OrphanAttachments)
	fmt.Fprintf(out, "orphaned notes:       %d\n", st.OrphanNotes)

	printDistribution(out, "documents per case", session.DocumentsPerCase())
	printDistribution(out, "notes per case", session.NotesPerCase())

	return nil
}

func printDistribution(out io.Writer, label string, xs []float64) {
	if len(xs) == 0 {
		return
	}
	mean := stat.Mean(xs, nil)
	sort.Float64s(xs)
	median := stat.Quantile(0.5, stat.Empirical, xs, nil)
	p90 := stat.Quantile(0.9, stat.Empirical, xs, nil)
	fmt.Fprintf(out, "%s: mean %.2f, median %.0f, p90 %.0f, max %.0f\n",
		label, mean, median, p90, xs[len(xs)-1])
}
