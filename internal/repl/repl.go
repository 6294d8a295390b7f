// Package repl implements the interactive driver: a scan loop that
// re-lexes/re-parses/re-compiles each line and runs it immediately.
// A definition's combinator is registered with Machine.Redefine (the
// one place a reload is allowed, per internal/machine's doc comment)
// so later lines can call earlier ones.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ilex-lang/ilex/internal/bytecode"
	"github.com/ilex-lang/ilex/internal/compiler"
	"github.com/ilex-lang/ilex/internal/lexer"
	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/module"
	"github.com/ilex-lang/ilex/internal/parser"
	"github.com/ilex-lang/ilex/internal/reducer"
)

// REPL holds everything one interactive session shares across lines:
// one Machine, one Reducer, one Manager. The REPL has no command that
// loads further modules through the Manager; `import` lines parse but
// load nothing.
type REPL struct {
	m   *machine.Machine
	r   *reducer.Reducer
	mgr *module.Manager
	out io.Writer
}

func New(m *machine.Machine, r *reducer.Reducer, mgr *module.Manager, out io.Writer) *REPL {
	return &REPL{m: m, r: r, mgr: mgr, out: out}
}

// Run drives the scan loop until in is exhausted or the user types
// "exit"/"quit". Each line is parsed as either a `def` (registered,
// redefinable) or a bare expression (reduced and printed).
func (repl *REPL) Run(in io.Reader) {
	fmt.Fprintf(repl.out, "ilex REPL | instance %s | type 'exit' to quit\n", repl.m.InstanceID)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(repl.out, ">>> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		case ":stats":
			repl.printStats()
			continue
		}

		repl.evalLine(line)
	}
}

func (repl *REPL) printStats() {
	fmt.Fprintf(repl.out, "%s combinators registered\n", humanize.Comma(int64(repl.m.NumCombinators())))
}

func (repl *REPL) evalLine(line string) {
	isDef := strings.HasPrefix(line, "def ") || strings.HasPrefix(line, "import ")
	src := line
	if !isDef {
		// A bare expression: the top-level grammar only accepts
		// import/def, so wrap it as a throwaway nullary definition and
		// reduce that instead.
		src = "def _repl = " + line
	}

	toks := lexer.New(src, "<repl>").Tokenize()
	p := parser.New(toks, "<repl>")
	mod := p.Parse()
	if len(p.Errors) > 0 {
		fmt.Fprintf(repl.out, "parse error: %v\n", p.Errors[0])
		return
	}

	specs, err := compiler.Compile(mod, "repl", repl.m)
	if err != nil {
		fmt.Fprintf(repl.out, "compile error: %v\n", err)
		return
	}

	if isDef {
		for _, spec := range specs {
			repl.m.Redefine(bytecode.NewCombinator(spec, repl.m, repl.r))
			fmt.Fprintf(repl.out, "%s defined\n", spec.Name)
		}
		return
	}

	comb := bytecode.NewCombinator(specs[0], repl.m, repl.r)
	result, err := repl.r.Apply(comb)
	if err != nil {
		fmt.Fprintf(repl.out, "%v\n", err)
		return
	}
	fmt.Fprintln(repl.out, result.String())
}
