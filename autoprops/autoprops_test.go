package autoprops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
- glob: "*.txt"
  eol-style: native
  keywords: "Rev Date"
- glob: "*.sh"
  eol-style: LF
  special: false
- glob: "bin/*"
  special: true
`

func writeRules(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "auto-props.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0644))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	rules, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadAndResolveByExtension(t *testing.T) {
	rules, err := Load(writeRules(t))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	rule, ok := Resolve(rules, "docs/readme.txt")
	require.True(t, ok)
	assert.Equal(t, "native", rule.EOLStyle)
	assert.Equal(t, "Rev Date", rule.Keywords)
}

func TestResolveFirstMatchWins(t *testing.T) {
	rules, err := Load(writeRules(t))
	require.NoError(t, err)

	rule, ok := Resolve(rules, "bin/run.sh")
	require.True(t, ok)
	// "*.sh" matches the basename "run.sh" and is checked before "bin/*",
	// so it wins even though "bin/*" also matches the full path.
	assert.Equal(t, "LF", rule.EOLStyle)
}

func TestResolveNoMatch(t *testing.T) {
	rules, err := Load(writeRules(t))
	require.NoError(t, err)

	_, ok := Resolve(rules, "image.png")
	assert.False(t, ok)
}
