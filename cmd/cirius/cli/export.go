package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/csvio"
	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/join"
	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// runExport is the core operation: build the full case tree from the four
// tables, then serialize it in a single write. The output file is only
// created after the whole tree is built; a failed run never leaves partial
// output behind.
func runExport(cmd *cobra.Command, folder string, compress bool) error {
	session, err := buildTree(cmd, folder)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session.Cases, "", "    ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	outPath := filepath.Join(folder, "cirius.json")
	if compress {
		outPath += ".zst"
		if err := writeZstd(outPath, data); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	} else {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}

	st := session.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cases, %d documents, %d attachments, %d notes)\n",
		outPath, st.Cases, st.Documents, st.Attachments, st.Notes)

	if orphans := st.OrphanDocuments + st.OrphanAttachments + st.OrphanNotes; orphans > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d record(s) had no resolvable parent and were dropped\n",
			color.New(color.FgYellow).Sprint("WARNING:"), orphans)
	}

	return nil
}

// buildTree runs the four sequential passes. Later passes depend on indexes
// fully built by earlier ones, so each table is read to completion before
// the next starts.
func buildTree(cmd *cobra.Command, folder string) (*join.Session, error) {
	session := join.NewSession(cmd.ErrOrStderr())

	fil, err := readTable(cmd, folder, "fil")
	if err != nil {
		return nil, err
	}
	if err := session.IndexFiles(fil); err != nil {
		return nil, err
	}

	sag, err := readTable(cmd, folder, "sag")
	if err != nil {
		return nil, err
	}
	session.LoadCases(sag)

	dokumentcdw, err := readTable(cmd, folder, "dokumentcdw")
	if err != nil {
		return nil, err
	}
	session.SplitDocuments(dokumentcdw)
	session.AttachDocuments()

	notat, err := readTable(cmd, folder, "notat")
	if err != nil {
		return nil, err
	}
	session.LoadNotes(notat)

	return session, nil
}

func readTable(cmd *cobra.Command, folder, table string) ([]*record.Record, error) {
	path, err := ResolveTable(folder, table)
	if err != nil {
		return nil, err
	}
	t, err := readTableFile(cmd, table, path)
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

func readTableFile(cmd *cobra.Command, table, path string) (*csvio.Table, error) {
	t, err := csvio.ReadTable(path)
	if err != nil {
		return nil, err
	}
	for _, w := range t.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %s row %d: %s\n", table, w.Row, w.Message)
	}
	return t, nil
}

func writeZstd(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
