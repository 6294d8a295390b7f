package stdlib

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// IO covers console output and input. print/println write through a
// shared, line-buffered stdout so that debug-dump output and program
// output interleave in source-program order. readline/readint/
// readfloat flush stdout before reading, and exit flushes stdout
// before terminating (stderr is not buffered here).
type IO struct{}

func (IO) Imports() []string { return nil }

var stdout = bufio.NewWriter(os.Stdout)
var stdin = bufio.NewReader(os.Stdin)

func (IO) Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator {
	eof := m.GetDataString("IO", "eof")
	nop := m.GetDataString("System", "nop")

	def := func(local string, class native.ArityClass, body native.Body) value.Combinator {
		return native.New(m.EnterSymbol("IO", local), "IO", local, class, body)
	}

	// format pads Text to a fixed column width when given a field-width
	// Integer, for tabular output.
	print := def("print", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		s := args[0].String()
		fmt.Fprint(stdout, s)
		if strings.Contains(s, "\n") {
			stdout.Flush()
		}
		return nop, value.OK, nil
	})
	printFmt := def("format", native.BinaryPattern, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		width, ok := args[0].(value.Int)
		if !ok {
			return nil, value.Bottom, nil
		}
		s := args[1].String()
		if len(s) < int(width) {
			s = s + strings.Repeat(" ", int(width)-len(s))
		}
		fmt.Fprint(stdout, s)
		if strings.Contains(s, "\n") {
			stdout.Flush()
		}
		return nop, value.OK, nil
	})
	println := def("println", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		fmt.Fprintln(stdout, args[0].String())
		stdout.Flush()
		return nop, value.OK, nil
	})

	readline := def("readline", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		stdout.Flush()
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return nil, value.Thrown, eof
		}
		return value.Text(strings.TrimRight(line, "\r\n")), value.OK, nil
	})
	readint := def("readint", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		stdout.Flush()
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return nil, value.Thrown, eof
		}
		n, perr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if perr != nil {
			return value.Int(0), value.OK, nil
		}
		return value.Int(n), value.OK, nil
	})
	readfloat := def("readfloat", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		stdout.Flush()
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return nil, value.Thrown, eof
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if perr != nil {
			return value.Float(0), value.OK, nil
		}
		return value.Float(f), value.OK, nil
	})

	exit := def("exit", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		code, ok := args[0].(value.Int)
		if !ok {
			return nil, value.Bottom, nil
		}
		stdout.Flush()
		os.Exit(int(code))
		return nop, value.OK, nil // unreachable
	})

	return []value.Combinator{print, printFmt, println, readline, readint, readfloat, exit}
}
