package join

import "github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"

// LoadNotes is pass 4: each note row gets its file list, then is attached
// to its owning case's notes list.
func (s *Session) LoadNotes(rows []*record.Record) {
	for _, note := range rows {
		s.attachFiles(note, OwnerNote, note.Get(FieldNote))
		if attachChild(s.Cases, s.caseIdx, note.Get(FieldCase), fieldNotes, note, s.diag) {
			s.Stats.Notes++
		} else {
			s.Stats.OrphanNotes++
		}
	}
}
