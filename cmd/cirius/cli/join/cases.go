package join

import (
	"fmt"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// LoadCases is pass 2: the case rows become the ordered root sequence of the
// output tree, with a case-number → position index for the later attach
// passes.
//
// A duplicated case number is kept in the sequence (the output preserves
// every source row) but the index keeps the first occurrence's slot, so all
// children land on the first row. That loses the later row's children-to-be;
// it is diagnosed rather than silently accepted.
func (s *Session) LoadCases(rows []*record.Record) {
	for _, row := range rows {
		s.Cases = append(s.Cases, row)

		nr := row.Get(FieldCase)
		if _, dup := s.caseIdx[nr]; dup {
			fmt.Fprintf(s.diag, "WARNING: duplicate case number %q in sag table; children attach to the first occurrence\n", nr)
			s.Stats.DuplicateCases++
			continue
		}
		s.caseIdx[nr] = len(s.Cases) - 1
	}
	s.Stats.Cases = len(s.Cases)
}
