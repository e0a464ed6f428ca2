package join

import "github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"

// attachmentFields are the columns of the combined dokumentcdw table that
// describe the embedded message artifact rather than the document itself.
// Everything not listed here belongs to the document part.
var attachmentFields = []string{
	"cdw_id",
	"cdwDocumentUniqueID",
	"cdwCreatedDate",
	"From1",
	"PostedDate",
	"SendTo",
	"CopyTo",
	"BlindCopyTo",
	"Subject",
	"cdwBody",
}

var attachmentFieldSet = func() map[string]bool {
	set := make(map[string]bool, len(attachmentFields))
	for _, f := range attachmentFields {
		set[f] = true
	}
	return set
}()

// SplitDocuments is pass 3 over the combined document/attachment table.
// Each row is partitioned into a document part and an attachment part,
// preserving column order within each part. Documents are registered once
// per dokument_id (first row wins); the attachment part is processed on
// every row it appears with a non-empty cdw_id, so a document seen in N
// rows ends up with N attachments.
func (s *Session) SplitDocuments(rows []*record.Record) {
	for _, row := range rows {
		doc := record.New()
		att := record.New()
		for _, key := range row.Keys() {
			if attachmentFieldSet[key] {
				att.Set(key, row.Get(key))
			} else {
				doc.Set(key, row.Get(key))
			}
		}

		docID := doc.Get(FieldDocument)
		if _, seen := s.docIdx[docID]; !seen {
			s.attachFiles(doc, OwnerDocument, docID)
			s.Documents = append(s.Documents, doc)
			s.docIdx[docID] = len(s.Documents) - 1
		} else {
			s.Stats.DuplicateDocuments++
		}

		// A row with no cdw_id carries no attachment at all.
		attID := att.Get(FieldAttachment)
		if attID == "" {
			continue
		}
		s.attachFiles(att, OwnerAttachment, attID)
		if attachChild(s.Documents, s.docIdx, docID, fieldAttachments, att, s.diag) {
			s.Stats.Attachments++
		} else {
			s.Stats.OrphanAttachments++
		}
	}
	s.Stats.Documents = len(s.Documents)
}

// AttachDocuments hangs every registered document off its owning case.
// Runs after SplitDocuments has seen the whole table so the document
// sequence is final.
func (s *Session) AttachDocuments() {
	for _, doc := range s.Documents {
		if !attachChild(s.Cases, s.caseIdx, doc.Get(FieldCase), fieldDocuments, doc, s.diag) {
			s.Stats.OrphanDocuments++
		}
	}
}
