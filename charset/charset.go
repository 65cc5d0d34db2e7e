// Package charset converts non-UTF-8 bytes to UTF-8 for the sole purpose
// of building readable diagnostic text (§6): a keyword value or an error
// message built from repository content that happens to be in a legacy
// encoding must still render sensibly in logs and CLI output.
package charset

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Named encodings available for diagnostic conversion. This is
// deliberately a small, fixed set — not a general encoding registry —
// since it exists only to make error text legible, not to translate file
// content.
var named = map[string]encoding.Encoding{
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":     charmap.Windows1252,
}

// ToUTF8 decodes src from the named encoding into a UTF-8 string. An
// unknown name returns src unchanged, since a best-effort diagnostic
// rendering is always preferable to failing on an unrecognized encoding.
func ToUTF8(name string, src []byte) string {
	enc, ok := named[name]
	if !ok {
		return string(src)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), src)
	if err != nil {
		return fmt.Sprintf("%s (undecodable as %s: %v)", string(src), name, err)
	}
	return string(out)
}
