package join

import (
	"fmt"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// OwnerKind is the file-table discriminator naming what a file row is
// attached to. The literal values come from the source system.
type OwnerKind string

const (
	OwnerDocument   OwnerKind = "dokument"
	OwnerAttachment OwnerKind = "cdw"
	OwnerNote       OwnerKind = "notat"
)

// Source column names carrying the join keys.
const (
	FieldOwnerKind  = "notes_template_name"
	FieldOwnerID    = "notes_template_id"
	FieldCase       = "SagsNr"
	FieldDocument   = "dokument_id"
	FieldAttachment = "cdw_id"
	FieldNote       = "notat_id"
)

// Appended output field names.
const (
	fieldFiles       = "files"
	fieldAttachments = "attachments"
	fieldDocuments   = "documents"
	fieldNotes       = "notes"
)

type fileKey struct {
	kind OwnerKind
	id   string
}

// IndexFiles is pass 1: group every file row by (owner kind, owner id),
// preserving source order within each group. An unrecognized owner kind
// aborts the run; it means the export no longer matches the schema this
// tool was written against, and silently dropping rows would hide that.
func (s *Session) IndexFiles(rows []*record.Record) error {
	for i, row := range rows {
		kind := OwnerKind(row.Get(FieldOwnerKind))
		switch kind {
		case OwnerDocument, OwnerAttachment, OwnerNote:
		default:
			return fmt.Errorf("fil row %d: unrecognized owner kind %q (want %q, %q or %q)",
				i+1, row.Get(FieldOwnerKind), OwnerDocument, OwnerAttachment, OwnerNote)
		}

		key := fileKey{kind: kind, id: row.Get(FieldOwnerID)}
		s.files[key] = append(s.files[key], row)
		s.Stats.FilesIndexed++
	}
	return nil
}
