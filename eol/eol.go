// Package eol resolves an svn:eol-style-like property value into a target
// line terminator for the translation engine.
package eol

import "runtime"

// Style tags the kind of EOL policy in effect for a path.
type Style int

const (
	// StyleNone means no EOL translation is requested.
	StyleNone Style = iota
	// StyleNative rewrites all terminators to the platform's native form.
	StyleNative
	// StyleFixed rewrites all terminators to one fixed byte sequence.
	StyleFixed
	// StyleUnknown means the property value was not recognized.
	StyleUnknown
)

func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleNative:
		return "native"
	case StyleFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

var (
	lf   = []byte{'\n'}
	cr   = []byte{'\r'}
	crlf = []byte{'\r', '\n'}
)

// Native is the platform's native line terminator, used when Style is
// StyleNative. On every platform Go targets for version control tooling
// this is either LF or CRLF; subst.c's APR_EOL_STR resolves the same way.
var Native = func() []byte {
	if runtime.GOOS == "windows" {
		return crlf
	}
	return lf
}()

// DefaultEOL is the repository's canonical line terminator.
var DefaultEOL = lf

// Resolve maps a raw svn:eol-style property value to a Style and its target
// terminator. A nil value (property absent) resolves to StyleNone.
// Comparison is byte-exact and case-sensitive, matching
// svn_subst_eol_style_from_value.
func Resolve(value *string) (Style, []byte) {
	if value == nil {
		return StyleNone, nil
	}
	switch *value {
	case "native":
		return StyleNative, Native
	case "LF":
		return StyleFixed, lf
	case "CR":
		return StyleFixed, cr
	case "CRLF":
		return StyleFixed, crlf
	default:
		return StyleUnknown, nil
	}
}

// Target returns the terminator bytes actually used on the wire for a
// resolved style: none for StyleNone/StyleUnknown, the resolved bytes
// otherwise.
func Target(style Style, target []byte) []byte {
	switch style {
	case StyleNative, StyleFixed:
		return target
	default:
		return nil
	}
}

// TranslationRequired implements the translation-required predicate of
// §4.1: translation is needed if the file is special, has keywords, force
// is requested with a real style, or the style disagrees with the
// platform's native terminator.
func TranslationRequired(style Style, target []byte, hasKeywords, special, force bool) bool {
	if special || hasKeywords {
		return true
	}
	if style == StyleNone {
		return false
	}
	if force {
		return true
	}
	switch style {
	case StyleNative:
		return !bytesEqual(Native, DefaultEOL)
	case StyleFixed:
		return !bytesEqual(Native, target)
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
