// Package digest computes the content fingerprint used by the translation
// cache (component J) to decide whether a file needs re-translating.
package digest

import (
	"encoding/hex"
	"io"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Compute returns the hex-encoded blake2b-256 digest of r's content.
func Compute(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Key folds a content digest together with the resolved policy that would
// be applied to it. Per the open question in SPEC_FULL.md §9, the cache
// key includes the policy so a policy-only change (same bytes, different
// eol-style/keywords/special) still forces re-translation even though the
// content digest alone would match.
func Key(contentDigest, eolStyle, keywordsList string, special bool) string {
	return contentDigest + "|" + eolStyle + "|" + keywordsList + "|" + strconv.FormatBool(special)
}
