// Package join reconstructs the nested case tree from the four flat table
// exports. Four sequential passes: index file rows by owner, load the case
// list, split and dedup the combined document/attachment rows, then attach
// documents and notes to their cases. Every join is an O(1) index lookup;
// each table is scanned exactly once.
package join

import (
	"io"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// Session owns all state for one run: the file index, the case and document
// sequences with their key→position indexes, and the running counters.
// Passes are methods so nothing closes over package-level state.
type Session struct {
	files map[fileKey][]*record.Record

	Cases   []*record.Record
	caseIdx map[string]int

	Documents []*record.Record
	docIdx    map[string]int

	Stats Stats

	diag io.Writer
}

// Stats counts what each pass saw. Orphans are children whose parent key
// never resolved; they are dropped with a diagnostic, not fatal.
type Stats struct {
	FilesIndexed       int
	Cases              int
	DuplicateCases     int
	Documents          int
	DuplicateDocuments int
	Attachments        int
	Notes              int
	OrphanDocuments    int
	OrphanAttachments  int
	OrphanNotes        int
}

// NewSession returns an empty session. Diagnostics for recoverable problems
// (orphaned children, duplicate case numbers) are written to diag.
func NewSession(diag io.Writer) *Session {
	return &Session{
		files:   make(map[fileKey][]*record.Record),
		Cases:   make([]*record.Record, 0),
		caseIdx: make(map[string]int),
		docIdx:  make(map[string]int),
		diag:    diag,
	}
}

// attachFiles puts the matching file list on r under "files". No matching
// file rows means no field at all, not an empty list.
func (s *Session) attachFiles(r *record.Record, kind OwnerKind, id string) {
	if files, ok := s.files[fileKey{kind: kind, id: id}]; ok {
		r.SetList(fieldFiles, files)
	}
}

// DocumentsPerCase returns the documents count of every case, in case order.
func (s *Session) DocumentsPerCase() []float64 {
	return s.childCounts(fieldDocuments)
}

// NotesPerCase returns the notes count of every case, in case order.
func (s *Session) NotesPerCase() []float64 {
	return s.childCounts(fieldNotes)
}

func (s *Session) childCounts(field string) []float64 {
	counts := make([]float64, len(s.Cases))
	for i, c := range s.Cases {
		counts[i] = float64(len(c.List(field)))
	}
	return counts
}
