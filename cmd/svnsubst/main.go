// Command svnsubst is the CLI front end for the translation engine
// (component K): translate/detranslate/materialize a single file under an
// explicit, stored, or auto-props-resolved policy, backed by a
// database/sql property store and a blake2b digest cache, or export the
// policies recorded for a path prefix as YAML.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/wzunique/subversion/charset"
	"github.com/wzunique/subversion/util"
)

var version = "dev"

type globalOptions struct {
	Backend        string `long:"backend" description:"property-store DSN (sqlite://path, mysql://..., postgres://..., sqlserver://...)" value-name:"dsn"`
	AutoProps      string `long:"auto-props" description:"YAML file of glob->policy auto-props rules" value-name:"file"`
	Verbose        bool   `long:"verbose" short:"v" description:"dump resolved policy and transducer options to stdout"`
	NoColor        bool   `long:"no-color" description:"disable colored diagnostic output"`
	PasswordPrompt bool   `long:"password-prompt" description:"prompt for the --backend password when the DSN does not embed one"`
	PathEncoding   string `long:"path-encoding" description:"legacy encoding (latin1, windows-1252, ...) of source/dest paths, used only to render diagnostics legibly" value-name:"name"`
	Version        bool   `long:"version" description:"show this version"`
}

var opts globalOptions

func main() {
	util.InitSlog()

	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options] <command>"

	parser.AddCommand("translate", "Expand keywords and translate EOLs for checkout", "",
		&translateCmd{direction: directionExpand})
	parser.AddCommand("detranslate", "Contract keywords and translate EOLs for commit", "",
		&translateCmd{direction: directionContract})
	parser.AddCommand("materialize", "Recreate a working-copy file (symlink or plain) from its svn:special sidecar", "",
		&materializeCmd{})
	parser.AddCommand("export-config", "Print property-store records under a path prefix as YAML", "",
		&exportConfigCmd{})

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		slog.Error("parse arguments", "error", diagnosticText(err))
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if opts.NoColor {
		os.Setenv("NO_COLOR", "1")
	}

	if parser.Active == nil && len(args) > 0 {
		slog.Error("unrecognized command", "args", args)
		os.Exit(1)
	}
}

// diagnosticText renders err's message through --path-encoding so a path or
// identifier byte sequence in a legacy encoding still prints legibly
// instead of as mojibake.
func diagnosticText(err error) string {
	if opts.PathEncoding == "" {
		return err.Error()
	}
	return charset.ToUTF8(opts.PathEncoding, []byte(err.Error()))
}
