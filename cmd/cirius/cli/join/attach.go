package join

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cirius-dev/cirius-cli/cmd/cirius/cli/record"
)

// attachChild is the single join primitive: append child to the named child
// list of the parent identified by key. An unresolved key writes a
// diagnostic naming the key and the orphaned record and leaves all state
// untouched. Reports whether the child was attached.
func attachChild(parents []*record.Record, index map[string]int, key, field string, child *record.Record, diag io.Writer) bool {
	pos, ok := index[key]
	if !ok {
		fmt.Fprintf(diag, "ERROR: no parent found for key %q; dropping orphaned record: %s\n",
			key, orphanSummary(child))
		return false
	}
	parents[pos].Append(field, child)
	return true
}

func orphanSummary(child *record.Record) string {
	data, err := json.Marshal(child)
	if err != nil {
		return "<unserializable record>"
	}
	return string(data)
}
