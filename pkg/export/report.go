package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/deaconrota/core/rotation"
)

// WriteDiagnostics encodes analyzer output. CSV is not supported for
// diagnostics; JSON is used instead.
func WriteDiagnostics(w io.Writer, f Format, d rotation.Diagnostics) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, FormatCSV:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return fmt.Errorf("unknown export format %q", f)
}
