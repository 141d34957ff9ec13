package format

import (
	"encoding/json"
	"io"

	"github.com/pseudomuto/sqlsrv/pkg/drift"
)

func (f *Formatter) json(w io.Writer, s drift.Summary) error {
	enc := json.NewEncoder(w)
	if f.options.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(s)
}
