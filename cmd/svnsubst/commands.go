package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/k0kubun/pp/v3"
	"gopkg.in/yaml.v2"

	"github.com/wzunique/subversion/autoprops"
	"github.com/wzunique/subversion/digest"
	"github.com/wzunique/subversion/eol"
	"github.com/wzunique/subversion/fsys"
	"github.com/wzunique/subversion/keyword"
	"github.com/wzunique/subversion/propstore"
	"github.com/wzunique/subversion/subst"
	"github.com/wzunique/subversion/translate"
	"github.com/wzunique/subversion/util"
)

type direction int

const (
	directionExpand direction = iota
	directionContract
)

type fileArgs struct {
	Source string `positional-arg-name:"source"`
	Dest   string `positional-arg-name:"dest"`
}

// translateCmd drives translate.CopyAndTranslate for one file, resolving
// its policy from explicit flags, falling back to the property store and
// then to auto-props, and skipping the translation entirely when the
// digest cache shows the source is unchanged from the last run.
type translateCmd struct {
	direction direction

	EOLStyle string `long:"eol-style" description:"native|LF|CR|CRLF" value-name:"style"`
	Keywords string `long:"keywords" description:"svn:keywords property value" value-name:"list"`
	Special  bool   `long:"special" description:"source is an svn:special sidecar, not file content"`
	Repair   bool   `long:"repair" description:"relax an inconsistent source EOL sequence into a silent rewrite"`
	Force    bool   `long:"force" description:"ignore the digest cache and always re-translate"`
	Revision string `long:"revision" description:"value substituted for $Rev$/$LastChangedRevision$"`
	URL      string `long:"url" description:"value substituted for $HeadURL$/$URL$"`
	Author   string `long:"author" description:"value substituted for $Author$/$LastChangedBy$"`

	Args fileArgs `positional-args:"yes" required:"yes"`
}

func (c *translateCmd) Execute(_ []string) error {
	ctx := context.Background()

	store, err := openBackend(ctx, opts.Backend, opts.PasswordPrompt)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	resolved, err := resolvePolicy(ctx, store, opts.AutoProps, c.Args.Source, c.EOLStyle, c.Keywords, c.Special)
	if err != nil {
		return err
	}

	kwCtx := keyword.Context{Revision: c.Revision, URL: c.URL, Author: c.Author}
	if c.Revision != "" {
		kwCtx.Date = time.Now()
		kwCtx.HasDate = true
	}
	keywords := keyword.BuildSet(resolved.keywordsList, kwCtx)

	transOpts := translate.Options{
		EOLTarget: eol.Target(resolved.style, resolved.target),
		Repair:    c.Repair,
		Keywords:  keywords,
		Expand:    c.direction == directionExpand,
		Special:   resolved.special,
	}

	if opts.Verbose {
		pp.Fprintln(util.Stdout(), transOpts)
	}

	srcDigest, skip, err := checkDigestCache(store, c.Args.Source, resolved, c.Force)
	if err != nil {
		return err
	}
	if skip {
		if _, statErr := os.Lstat(c.Args.Dest); statErr == nil {
			slog.Info("skip unchanged", "source", c.Args.Source)
			return nil
		}
	}

	slog.Info("translate", "source", c.Args.Source, "dest", c.Args.Dest,
		"eol-style", resolved.style.String(), "expand", transOpts.Expand, "special", resolved.special)

	if err := translate.CopyAndTranslate(fsys.OS, c.Args.Source, c.Args.Dest, transOpts); err != nil {
		return err
	}

	if store != nil {
		rec := propstore.PolicyRecord{
			Path:        c.Args.Source,
			EOLStyle:    resolved.eolStyleValue,
			Keywords:    resolved.keywordsList,
			Special:     resolved.special,
			Revision:    c.Revision,
			URL:         c.URL,
			Author:      c.Author,
			CommittedAt: time.Now().Unix(),
			Digest:      srcDigest,
		}
		if err := store.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// checkDigestCache computes the source's content digest and compares it
// against the stored policy record (§4.10). It returns the freshly
// computed digest (always, so the caller can persist it) and whether the
// translation may be skipped.
func checkDigestCache(store propstore.Store, srcPath string, resolved resolvedPolicy, force bool) (string, bool, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", false, fmt.Errorf("digest: open %s: %w", srcPath, err)
	}
	defer f.Close()

	srcDigest, err := digest.Compute(f)
	if err != nil {
		return "", false, fmt.Errorf("digest: compute %s: %w", srcPath, err)
	}

	if force || store == nil || !resolved.fromStore {
		return srcDigest, false, nil
	}

	key := digest.Key(srcDigest, resolved.eolStyleValue, resolved.keywordsList, resolved.special)
	storedKey := digest.Key(resolved.storedDigest, resolved.eolStyleValue, resolved.keywordsList, resolved.special)
	return srcDigest, key == storedKey, nil
}

// materializeCmd recreates a working-copy file from its svn:special
// sidecar, dispatching to a plain symlink when the target platform
// supports it and falling back to a raw copy otherwise.
type materializeCmd struct {
	Args fileArgs `positional-args:"yes" required:"yes"`
}

func (c *materializeCmd) Execute(_ []string) error {
	t := &translateCmd{direction: directionExpand, Special: true, Args: c.Args}
	return t.Execute(nil)
}

// exportConfigCmd prints every property-store record whose path starts
// with a prefix, as YAML (§4.11).
type exportConfigCmd struct {
	Args struct {
		Prefix string `positional-arg-name:"prefix"`
	} `positional-args:"yes" required:"yes"`
}

func (c *exportConfigCmd) Execute(_ []string) error {
	ctx := context.Background()
	store, err := openBackend(ctx, opts.Backend, opts.PasswordPrompt)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("export-config: --backend is required")
	}
	defer store.Close()

	recs, err := store.List(ctx, c.Args.Prefix)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(recs)
	if err != nil {
		return err
	}
	fmt.Fprint(util.Stdout(), string(out))
	return nil
}

// resolvedPolicy is the outcome of layering explicit flags over the
// property store over auto-props, plus enough of the stored record to
// drive the digest cache.
type resolvedPolicy struct {
	style         eol.Style
	target        []byte
	eolStyleValue string
	keywordsList  string
	special       bool
	fromStore     bool
	storedDigest  string
}

// resolvePolicy prefers explicit flags, then a property-store record for
// the path, then an auto-props match. A later source is consulted only when
// eol-style, keywords and special are all still unset, and then supplies
// all three. An eol-style value that eol.Resolve does not recognize fails
// with subst.ErrUnknownEol.
func resolvePolicy(ctx context.Context, store propstore.Store, autoPropsPath, path, eolStyle, keywords string, special bool) (resolvedPolicy, error) {
	var rp resolvedPolicy

	if eolStyle == "" && keywords == "" && !special && store != nil {
		rec, ok, err := store.Get(ctx, path)
		if err != nil {
			return rp, err
		}
		if ok {
			eolStyle, keywords, special = rec.EOLStyle, rec.Keywords, rec.Special
			rp.fromStore = true
			rp.storedDigest = rec.Digest
		}
	}

	if eolStyle == "" && keywords == "" && !special {
		rules, err := autoprops.Load(autoPropsPath)
		if err != nil {
			return rp, err
		}
		if rule, ok := autoprops.Resolve(rules, path); ok {
			eolStyle, keywords, special = rule.EOLStyle, rule.Keywords, rule.Special
		}
	}

	var valuePtr *string
	if eolStyle != "" {
		valuePtr = &eolStyle
	}
	rp.style, rp.target = eol.Resolve(valuePtr)
	if rp.style == eol.StyleUnknown {
		return rp, fmt.Errorf("%w: %q", subst.ErrUnknownEol, eolStyle)
	}
	rp.eolStyleValue = eolStyle
	rp.keywordsList = keywords
	rp.special = special
	return rp, nil
}
