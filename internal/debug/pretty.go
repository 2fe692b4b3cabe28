package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PrettyJSON renders data as JSON with a two-space indent.
// HTML characters are left unescaped. Values that cannot be encoded fall back
// to their Go representation.
func PrettyJSON(data any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Sprintf("%v", data)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
