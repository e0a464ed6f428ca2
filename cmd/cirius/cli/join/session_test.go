package join

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// rec builds a record from alternating key/value pairs.
func rec(pairs ...string) *record.Record {
	r := record.New()
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func fileRow(kind, id, name string) *record.Record {
	return rec(FieldOwnerKind, kind, FieldOwnerID, id, "filnavn", name)
}

func TestIndexFiles_GroupsByOwnerInSourceOrder(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	err := s.IndexFiles([]*record.Record{
		fileRow("dokument", "D1", "first.pdf"),
		fileRow("notat", "N1", "note.txt"),
		fileRow("dokument", "D1", "second.pdf"),
		fileRow("cdw", "C1", "mail.eml"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Stats.FilesIndexed)

	docFiles := s.files[fileKey{kind: OwnerDocument, id: "D1"}]
	require.Len(t, docFiles, 2)
	assert.Equal(t, "first.pdf", docFiles[0].Get("filnavn"))
	assert.Equal(t, "second.pdf", docFiles[1].Get("filnavn"))
	assert.Len(t, s.files[fileKey{kind: OwnerNote, id: "N1"}], 1)
	assert.Len(t, s.files[fileKey{kind: OwnerAttachment, id: "C1"}], 1)
}

func TestIndexFiles_UnrecognizedOwnerKindFails(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	err := s.IndexFiles([]*record.Record{
		fileRow("dokument", "D1", "ok.pdf"),
		fileRow("sag", "S1", "bad.pdf"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"sag"`)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadCases_OrderAndIndex(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	s.LoadCases([]*record.Record{
		rec(FieldCase, "S3"),
		rec(FieldCase, "S1"),
		rec(FieldCase, "S2"),
	})

	require.Len(t, s.Cases, 3)
	assert.Equal(t, "S3", s.Cases[0].Get(FieldCase))
	assert.Equal(t, 1, s.caseIdx["S1"])
	assert.Equal(t, 3, s.Stats.Cases)
}

func TestLoadCases_DuplicateFirstWins(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	s := NewSession(&diag)
	s.LoadCases([]*record.Record{
		rec(FieldCase, "S1", "Titel", "original"),
		rec(FieldCase, "S1", "Titel", "duplicate"),
	})

	// Both rows stay in the output sequence; the index keeps the first slot.
	require.Len(t, s.Cases, 2)
	assert.Equal(t, 0, s.caseIdx["S1"])
	assert.Equal(t, 1, s.Stats.DuplicateCases)
	assert.Contains(t, diag.String(), `duplicate case number "S1"`)

	s.LoadNotes([]*record.Record{rec(FieldNote, "N1", FieldCase, "S1")})
	assert.Len(t, s.Cases[0].List("notes"), 1)
	assert.Nil(t, s.Cases[1].List("notes"))
}

func TestSplitDocuments_FieldPartition(t *testing.T) {
	t.Parallel()

	row := record.New()
	row.Set(FieldDocument, "D1")
	row.Set(FieldCase, "S1")
	row.Set("DokTitel", "Letter")
	for _, f := range attachmentFields {
		row.Set(f, "v-"+f)
	}

	s := NewSession(io.Discard)
	s.SplitDocuments([]*record.Record{row})

	require.Len(t, s.Documents, 1)
	doc := s.Documents[0]
	atts := doc.List("attachments")
	require.Len(t, atts, 1)
	att := atts[0]

	// Every designated field is on the attachment only; everything else is
	// on the document only. No field dropped, none duplicated.
	for _, f := range attachmentFields {
		assert.True(t, att.Has(f), "attachment should carry %s", f)
		assert.False(t, doc.Has(f), "document should not carry %s", f)
	}
	for _, f := range []string{FieldDocument, FieldCase, "DokTitel"} {
		assert.True(t, doc.Has(f), "document should carry %s", f)
		assert.False(t, att.Has(f), "attachment should not carry %s", f)
	}
	assert.Equal(t, len(attachmentFields), att.Len())
}

func TestSplitDocuments_DedupKeepsAllAttachments(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "DokTitel", "Letter", "cdw_id", "C1", "Subject", "first"),
		rec(FieldDocument, "D1", FieldCase, "S1", "DokTitel", "Letter", "cdw_id", "C2", "Subject", "second"),
	})

	require.Len(t, s.Documents, 1)
	assert.Equal(t, 1, s.Stats.DuplicateDocuments)

	atts := s.Documents[0].List("attachments")
	require.Len(t, atts, 2)
	assert.Equal(t, "C1", atts[0].Get("cdw_id"))
	assert.Equal(t, "C2", atts[1].Get("cdw_id"))
	assert.Equal(t, 2, s.Stats.Attachments)
}

func TestSplitDocuments_EmptyAttachmentID(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "cdw_id", "", "Subject", ""),
	})

	require.Len(t, s.Documents, 1)
	assert.False(t, s.Documents[0].Has("attachments"))
	assert.Equal(t, 0, s.Stats.Attachments)
}

func TestFileLists_AttachedOnlyWhenPresent(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	require.NoError(t, s.IndexFiles([]*record.Record{
		fileRow("dokument", "D1", "a.pdf"),
		fileRow("dokument", "D1", "b.pdf"),
	}))
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "cdw_id", ""),
		rec(FieldDocument, "D2", FieldCase, "S1", "cdw_id", ""),
	})

	withFiles := s.Documents[0]
	require.True(t, withFiles.Has("files"))
	files := withFiles.List("files")
	require.Len(t, files, 2)
	assert.Equal(t, "a.pdf", files[0].Get("filnavn"))
	assert.Equal(t, "b.pdf", files[1].Get("filnavn"))

	// Zero matching file rows means no files key at all.
	assert.False(t, s.Documents[1].Has("files"))
}

func TestOwnerKindPartition_NoteFilesStayOnNotes(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	// Same owner id under every kind; only the matching kind should see it.
	require.NoError(t, s.IndexFiles([]*record.Record{
		fileRow("notat", "X1", "note-only.txt"),
	}))
	s.LoadCases([]*record.Record{rec(FieldCase, "S1")})
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "X1", FieldCase, "S1", "cdw_id", "X1"),
	})
	s.AttachDocuments()
	s.LoadNotes([]*record.Record{rec(FieldNote, "X1", FieldCase, "S1")})

	doc := s.Documents[0]
	assert.False(t, doc.Has("files"))
	assert.False(t, doc.List("attachments")[0].Has("files"))

	notes := s.Cases[0].List("notes")
	require.Len(t, notes, 1)
	require.True(t, notes[0].Has("files"))
	assert.Equal(t, "note-only.txt", notes[0].List("files")[0].Get("filnavn"))
}

func TestAttachDocuments_OrphanLoggedAndDropped(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	s := NewSession(&diag)
	s.LoadCases([]*record.Record{rec(FieldCase, "S1")})
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "cdw_id", ""),
		rec(FieldDocument, "D2", FieldCase, "MISSING", "cdw_id", ""),
	})
	s.AttachDocuments()

	docs := s.Cases[0].List("documents")
	require.Len(t, docs, 1)
	assert.Equal(t, "D1", docs[0].Get(FieldDocument))
	assert.Equal(t, 1, s.Stats.OrphanDocuments)
	assert.Contains(t, diag.String(), `"MISSING"`)
	assert.Contains(t, diag.String(), "D2")
}

func TestLoadNotes_OrphanLoggedAndDropped(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	s := NewSession(&diag)
	s.LoadCases([]*record.Record{rec(FieldCase, "S1")})
	s.LoadNotes([]*record.Record{
		rec(FieldNote, "N1", FieldCase, "S1"),
		rec(FieldNote, "N2", FieldCase, "GONE"),
	})

	assert.Len(t, s.Cases[0].List("notes"), 1)
	assert.Equal(t, 1, s.Stats.Notes)
	assert.Equal(t, 1, s.Stats.OrphanNotes)
	assert.Contains(t, diag.String(), `"GONE"`)
}

func TestCaseOrderPreservedRegardlessOfReferences(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	s.LoadCases([]*record.Record{
		rec(FieldCase, "S3"),
		rec(FieldCase, "S1"),
		rec(FieldCase, "S2"),
	})
	// Documents and notes reference cases in a different order.
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S2", "cdw_id", ""),
		rec(FieldDocument, "D2", FieldCase, "S3", "cdw_id", ""),
	})
	s.AttachDocuments()
	s.LoadNotes([]*record.Record{rec(FieldNote, "N1", FieldCase, "S1")})

	require.Len(t, s.Cases, 3)
	assert.Equal(t, "S3", s.Cases[0].Get(FieldCase))
	assert.Equal(t, "S1", s.Cases[1].Get(FieldCase))
	assert.Equal(t, "S2", s.Cases[2].Get(FieldCase))
}

func TestFullTree_SerializedShape(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	require.NoError(t, s.IndexFiles([]*record.Record{
		fileRow("dokument", "D1", "doc.pdf"),
		fileRow("cdw", "C1", "mail.eml"),
		fileRow("notat", "N1", "note.txt"),
	}))
	s.LoadCases([]*record.Record{
		rec(FieldCase, "S1", "Titel", "First"),
		rec(FieldCase, "S2", "Titel", "Second"),
	})
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "DokTitel", "Letter", "cdw_id", "C1", "Subject", "Hello"),
	})
	s.AttachDocuments()
	s.LoadNotes([]*record.Record{
		rec(FieldNote, "N1", FieldCase, "S1", "Tekst", "remember"),
	})

	data, err := json.Marshal(s.Cases)
	require.NoError(t, err)

	var cases []map[string]any
	require.NoError(t, json.Unmarshal(data, &cases))
	require.Len(t, cases, 2)

	first := cases[0]
	docs, ok := first["documents"].([]any)
	require.True(t, ok)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "Letter", doc["DokTitel"])
	require.Len(t, doc["files"].([]any), 1)
	atts := doc["attachments"].([]any)
	require.Len(t, atts, 1)
	att := atts[0].(map[string]any)
	assert.Equal(t, "Hello", att["Subject"])
	require.Len(t, att["files"].([]any), 1)

	notes := first["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "remember", notes[0].(map[string]any)["Tekst"])

	// Second case never gained child lists.
	second := cases[1]
	assert.NotContains(t, second, "documents")
	assert.NotContains(t, second, "notes")
}

func TestChildCountsPerCase(t *testing.T) {
	t.Parallel()

	s := NewSession(io.Discard)
	s.LoadCases([]*record.Record{
		rec(FieldCase, "S1"),
		rec(FieldCase, "S2"),
	})
	s.SplitDocuments([]*record.Record{
		rec(FieldDocument, "D1", FieldCase, "S1", "cdw_id", ""),
		rec(FieldDocument, "D2", FieldCase, "S1", "cdw_id", ""),
	})
	s.AttachDocuments()
	s.LoadNotes([]*record.Record{rec(FieldNote, "N1", FieldCase, "S2")})

	assert.Equal(t, []float64{2, 0}, s.DocumentsPerCase())
	assert.Equal(t, []float64{0, 1}, s.NotesPerCase())
}
