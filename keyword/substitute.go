package keyword

// KWMax is the maximum byte length of a keyword run. A run that reaches
// this length cannot be a valid keyword marker and is flushed verbatim by
// the chunk transducer.
const KWMax = 255

// Substitute rewrites a single keyword marker buf, where buf is known to
// satisfy buf[0] == '$' and buf[len(buf)-1] == '$'. It reports ok == false
// when buf does not match any recognized keyword form, or names a keyword
// not present in set — in both cases the caller must leave buf untouched.
func Substitute(buf []byte, set Set, expand bool) ([]byte, bool) {
	n := len(buf)
	if n < 3 || buf[0] != '$' || buf[n-1] != '$' {
		return buf, false
	}

	colon := -1
	for i := 1; i < n-1; i++ {
		if buf[i] == ':' {
			colon = i
			break
		}
	}

	var name string
	if colon == -1 {
		name = string(buf[1 : n-1])
	} else {
		name = string(buf[1:colon])
	}
	nameLen := len(name)

	value, known := set[name]
	if !known {
		return buf, false
	}

	if colon == -1 {
		// Bare "$name$".
		return rewriteVariable(name, nameLen, value, expand, buf), true
	}

	rest := buf[colon:]
	switch {
	case len(rest) == 2 && rest[1] == '$':
		// "$name:$". Already unexpanded, so contraction leaves it as is.
		if !expand {
			return buf, true
		}
		return rewriteVariable(name, nameLen, value, expand, buf), true

	case len(rest) >= 3 && rest[1] == ':' && rest[2] == ' ' &&
		n > nameLen+6 && (buf[n-2] == ' ' || buf[n-2] == '#'):
		return rewriteFixed(buf, nameLen, value, expand), true

	case len(rest) >= 2 && rest[1] == ' ' && buf[n-2] == ' ' && n >= nameLen+4:
		return rewriteVariable(name, nameLen, value, expand, buf), true

	default:
		return buf, false
	}
}

// rewriteVariable handles both the unexpanded ("$name$" / "$name:$") and
// expanded ("$name: value $") forms, which share the same output shapes.
func rewriteVariable(name string, nameLen int, value string, expand bool, buf []byte) []byte {
	if !expand {
		return append([]byte("$"+name), '$')
	}
	v := truncateExpansion(value, nameLen)
	if v == "" {
		return []byte("$" + name + ": $")
	}
	return []byte("$" + name + ": " + v + " $")
}

// rewriteFixed handles the fixed-length "$name:: value... $" form, which
// must preserve buf's total length across every rewrite.
func rewriteFixed(buf []byte, nameLen int, value string, expand bool) []byte {
	n := len(buf)
	prefixLen := nameLen + 4 // "$" + name + "::" + " "
	slotWidth := n - nameLen - 5

	out := make([]byte, n)
	copy(out, buf[:prefixLen])
	out[n-1] = '$'

	if !expand {
		for i := prefixLen; i < n-1; i++ {
			out[i] = ' '
		}
		return out
	}

	if len(value) < slotWidth {
		i := prefixLen
		i += copy(out[i:n-1], value)
		for ; i < n-1; i++ {
			out[i] = ' '
		}
		return out
	}

	truncLen := slotWidth - 1
	if truncLen < 0 {
		truncLen = 0
	}
	copy(out[prefixLen:n-1], value[:truncLen])
	out[n-2] = '#'
	return out
}

// truncateExpansion caps value to KWMax-5-nameLen bytes, the longest
// expansion that still fits inside a $name: ... $ marker capped at KWMax.
// A value that must be cut is truncated one byte further and terminated
// with '#' immediately before the closing delimiter.
func truncateExpansion(value string, nameLen int) string {
	maxLen := KWMax - 5 - nameLen
	if maxLen <= 0 {
		return ""
	}
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen-1] + "#"
}
