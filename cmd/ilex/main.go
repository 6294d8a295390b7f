// cmd/ilex/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ilex-lang/ilex/internal/errors"
	"github.com/ilex-lang/ilex/internal/lexer"
	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/module"
	"github.com/ilex-lang/ilex/internal/parser"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/repl"
	"github.com/ilex-lang/ilex/internal/stdlib"
)

const version = "0.1.0"

// options is the CLI flag surface: include/library search paths,
// output redirection, and per-stage debug dumps. Parsed by hand over
// os.Args rather than reaching for a flags package.
type options struct {
	help        bool
	version     bool
	interactive bool
	includeDirs []string
	libraryDirs []string
	output      string
	dumpTokens  bool
	dumpParse   bool
	dumpCheck   bool
	dumpDesugar bool
	dumpLift    bool
	dumpBytes   bool
	file        string
	args        []string
}

func parseArgs(argv []string) (*options, error) {
	o := &options{}
	i := 0
	for i < len(argv) {
		a := argv[i]
		switch a {
		case "-h", "--help":
			o.help = true
		case "-v", "--version":
			o.version = true
		case "-", "--in":
			o.interactive = true
		case "-I", "--include":
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("%s requires a directory argument", a)
			}
			o.includeDirs = append(o.includeDirs, argv[i])
		case "-L", "--library":
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("%s requires a directory argument", a)
			}
			o.libraryDirs = append(o.libraryDirs, argv[i])
		case "-o", "--output":
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("%s requires a file argument", a)
			}
			o.output = argv[i]
		case "-T":
			o.dumpTokens = true
		case "-U":
			o.dumpParse = true
		case "-X":
			o.dumpCheck = true
		case "-D":
			o.dumpDesugar = true
		case "-C":
			o.dumpLift = true
		case "-B":
			o.dumpBytes = true
		default:
			if o.file == "" && len(a) > 0 && a[0] != '-' {
				o.file = a
			} else {
				o.args = append(o.args, a)
			}
		}
		i++
	}
	return o, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `ilex — a combinator-rewriting interpreter

usage: ilex [options] [file]

  -h, --help               show this help and exit
  -v, --version            show version and exit
  -,  --in                 interactive REPL (default with no file)
  -I, --include <dir>      source import search path (repeatable)
  -L, --library <dir>      native-extension search path (repeatable)
  -o, --output <file>      redirect debug output
  -T                       dump tokens
  -U                       dump parse summary (import and def counts)
  -X, -D, -C, -B           accepted; no dump is produced`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	o, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		return 1
	}
	if o.help {
		usage()
		return 0
	}
	if o.version {
		fmt.Println("ilex", version)
		return 0
	}

	out := os.Stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			log.Printf("opening output file: %v", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	m := machine.New()
	r := reducer.New(m)
	mgr := module.New(m, r)
	mgr.RegisterNative("System", stdlib.System{})
	mgr.RegisterNative("Math", stdlib.Math{})
	mgr.RegisterNative("IO", stdlib.IO{})
	mgr.RegisterNative("Net", stdlib.Net{})
	mgr.RegisterNative("DB", stdlib.DB{})
	for _, dir := range o.includeDirs {
		mgr.AddIncludePath(dir)
	}
	for _, dir := range o.libraryDirs {
		mgr.AddLibraryPath(dir)
	}
	if err := mgr.Prelude("Math", "IO"); err != nil {
		log.Printf("loading prelude: %v", err)
		return 1
	}

	stdlib.SetArgs(append([]string{o.file}, o.args...))

	if o.file == "" || o.interactive {
		repl.New(m, r, mgr, out).Run(os.Stdin)
		return 0
	}

	if o.dumpTokens || o.dumpParse {
		if err := dumpFront(o, out); err != nil {
			fmt.Fprintln(out, err)
			return 1
		}
	}

	if err := mgr.LoadSource(o.file); err != nil {
		if le, ok := err.(*errors.LoadError); ok {
			fmt.Fprintln(os.Stderr, le.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 2
	}

	namespace := moduleNamespaceOf(o.file)
	mainSym, ok := m.Symbols().Lookup(namespace, "main")
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no main combinator exported\n", o.file)
		return 2
	}
	comb, ok := m.Lookup(mainSym)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: main not registered\n", o.file)
		return 2
	}
	result, err := r.Apply(comb)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	fmt.Fprintln(out, result.String())
	return 0
}

// dumpFront runs only the lex/parse stages for -T/-U, since the
// compiler's own entry point (module.Manager.LoadSource) does not
// expose intermediate stages directly.
func dumpFront(o *options, out *os.File) error {
	src, err := os.ReadFile(o.file)
	if err != nil {
		return err
	}
	toks := lexer.New(string(src), o.file).Tokenize()
	if o.dumpTokens {
		for _, t := range toks {
			fmt.Fprintf(out, "%d:%d %v %q\n", t.Line, t.Column, t.Type, t.Lexeme)
		}
	}
	if o.dumpParse {
		p := parser.New(toks, o.file)
		mod := p.Parse()
		fmt.Fprintf(out, "%d imports, %d defs\n", len(mod.Imports), len(mod.Defs))
	}
	return nil
}

func moduleNamespaceOf(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
