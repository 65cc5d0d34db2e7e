// Package keyword builds keyword expansion sets from an svn:keywords-style
// property value and performs the in-place $Keyword$ substitution used by
// the chunk transducer.
package keyword

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// Context bundles the per-revision values that feed keyword expansion.
// Any field may be the zero value, in which case the corresponding
// template code expands to the empty string.
type Context struct {
	Revision string
	URL      string
	Date     time.Time
	HasDate  bool
	Author   string
}

// Set maps every recognized alias of a keyword to its expanded value for
// one Context. Keys are the alias spellings of the table below, and
// lookups are case-sensitive: case-insensitive matching of short aliases
// applies only to the keywords-list tokens given to BuildSet.
type Set map[string]string

// aliasGroup is one row of the recognized-keyword table: every alias names
// the same template, and expanding under any alias installs the result
// under all of them so a file written with one alias round-trips under
// another.
type aliasGroup struct {
	names    []string
	template string
}

var aliasGroups = []aliasGroup{
	{names: []string{"LastChangedRevision", "Revision", "Rev"}, template: "%r"},
	{names: []string{"LastChangedDate", "Date"}, template: "%D"},
	{names: []string{"LastChangedBy", "Author"}, template: "%a"},
	{names: []string{"HeadURL", "URL"}, template: "%u"},
	{names: []string{"Id"}, template: "%b %r %d %a"},
}

// delimiters is the set of bytes that split a keywords-list property into
// tokens: space, tab, vtab, LF, BS, CR, FF.
func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\n', '\b', '\r', '\f':
		return true
	default:
		return false
	}
}

// shortAliases matches case-insensitively; every other alias is
// case-sensitive.
var shortAliases = map[string]bool{
	"rev":    true,
	"date":   true,
	"author": true,
	"url":    true,
	"id":     true,
}

// BuildSet tokenizes keywordList on the delimiter set and computes the
// expansion for every recognized alias found, inserting the result under
// every alias in that keyword's group.
func BuildSet(keywordList string, ctx Context) Set {
	set := Set{}
	for _, tok := range splitKeywords(keywordList) {
		group, canonical := matchAlias(tok)
		if group == nil {
			continue
		}
		if _, ok := set[canonical]; ok {
			continue
		}
		expansion := expand(group.template, ctx)
		for _, alias := range group.names {
			set[alias] = expansion
		}
	}
	return set
}

func splitKeywords(list string) []string {
	var toks []string
	start := -1
	for i := 0; i < len(list); i++ {
		if isDelimiter(list[i]) {
			if start >= 0 {
				toks = append(toks, list[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, list[start:])
	}
	return toks
}

func matchAlias(tok string) (*aliasGroup, string) {
	lower := strings.ToLower(tok)
	for i := range aliasGroups {
		g := &aliasGroups[i]
		for _, name := range g.names {
			if shortAliases[strings.ToLower(name)] {
				if strings.EqualFold(name, tok) {
					return g, name
				}
				continue
			}
			if name == tok {
				return g, name
			}
		}
	}
	_ = lower
	return nil, ""
}

// expand renders a template string against ctx, dispatching each %-code to
// the typed expansion context instead of a printf-style format string.
func expand(template string, ctx Context) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(template) {
			b.WriteByte('%')
			break
		}
		i++
		switch template[i] {
		case 'a':
			b.WriteString(ctx.Author)
		case 'b':
			b.WriteString(urlBasename(ctx.URL))
		case 'd':
			if ctx.HasDate {
				b.WriteString(ctx.Date.UTC().Format("2006-01-02 15:04:05Z"))
			}
		case 'D':
			if ctx.HasDate {
				b.WriteString(longDate(ctx.Date))
			}
		case 'r':
			b.WriteString(ctx.Revision)
		case 'u':
			b.WriteString(ctx.URL)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}
	return b.String()
}

func urlBasename(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	decoded, err := url.PathUnescape(rawURL)
	if err != nil {
		decoded = rawURL
	}
	return path.Base(decoded)
}

// longDate renders a stable, human-readable long form, e.g.
// "2024-03-05 09:30:00 +0000 (Tue, 05 Mar 2024)", matching the shape (not
// the exact bytes) of svn_time_to_human_cstring.
func longDate(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%s (%s)", u.Format("2006-01-02 15:04:05 -0700"), u.Format("Mon, 02 Jan 2006"))
}
