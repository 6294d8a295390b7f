// Package compiler desugars and lambda-lifts the parsed AST and emits
// bytecode. Because this front end accepts only flat,
// already-lifted function definitions (see parser's doc comment), the
// "lift" stage here is a no-op: compilation is resolve + desugar
// (operators, if/case) + emit, in one pass per definition.
package compiler

import (
	"fmt"
	"strings"

	"github.com/ilex-lang/ilex/internal/bytecode"
	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/parser"
	"github.com/ilex-lang/ilex/internal/value"
)

// binOpCombinator maps surface operators to System combinators: every
// operator is just application of a registered dyadic combinator, so
// desugaring needs nothing more than this table.
var binOpCombinator = map[string]string{
	"+": "plus", "-": "minus", "*": "mult", "/": "div", "%": "mod",
	"==": "eq", "!=": "neq", "<": "lt", "<=": "lteq", ">": "gt", ">=": "gteq",
}

type ctx struct {
	m         *machine.Machine
	namespace string
	chunk     *bytecode.Chunk
	scope     map[string]int
	next      int
}

func (c *ctx) alloc() int { r := c.next; c.next++; return r }
func (c *ctx) allocN(n int) int {
	start := c.next
	c.next += n
	return start
}

// Compile compiles every Def in mod into a bytecode.CombinatorSpec
// registered under (namespace, def.Name). Mutual recursion and forward
// references work because LOADGLOBAL resolves against the Machine at
// call time, not at compile time — the module manager registers every
// combinator of a module before any of them is reduced.
func Compile(mod parser.Module, namespace string, m *machine.Machine) ([]*bytecode.CombinatorSpec, error) {
	var specs []*bytecode.CombinatorSpec
	for _, def := range mod.Defs {
		spec, err := compileDef(def, namespace, m)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func compileDef(def parser.Def, namespace string, m *machine.Machine) (*bytecode.CombinatorSpec, error) {
	c := &ctx{
		m:         m,
		namespace: namespace,
		chunk:     bytecode.NewChunk(),
		scope:     make(map[string]int, len(def.Params)),
	}
	for i, p := range def.Params {
		c.scope[p] = i
	}
	c.next = len(def.Params)

	result, err := c.compileExpr(def.Body)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", namespace, def.Name, err)
	}
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpReturn, A: result}, bytecode.DebugInfo{Line: def.Line})

	sym := m.EnterSymbol(namespace, def.Name)
	return &bytecode.CombinatorSpec{
		Symbol:    sym,
		Name:      namespace + "." + def.Name,
		NumParams: len(def.Params),
		NumRegs:   c.next,
		Chunk:     c.chunk,
	}, nil
}

func (c *ctx) compileExpr(e parser.Expr) (int, error) {
	switch v := e.(type) {
	case parser.IntLit:
		return c.loadConst(value.Int(v.Value)), nil
	case parser.FloatLit:
		return c.loadConst(value.Float(v.Value)), nil
	case parser.CharLit:
		return c.loadConst(value.Char(v.Value)), nil
	case parser.TextLit:
		return c.loadConst(value.Text(v.Value)), nil
	case parser.Ident:
		return c.compileIdent(v)
	case parser.BinOp:
		local, ok := binOpCombinator[v.Op]
		if !ok {
			return 0, fmt.Errorf("unknown operator %q", v.Op)
		}
		return c.compileApp(parser.Ident{Name: "System." + local}, []parser.Expr{v.Left, v.Right})
	case parser.App:
		return c.compileApp(v.Fn, v.Args)
	case parser.If:
		return c.compileIf(v)
	case parser.Case:
		return c.compileCase(v)
	default:
		return 0, fmt.Errorf("compiler: unhandled expression %T", e)
	}
}

func (c *ctx) loadConst(v value.Value) int {
	idx := c.chunk.AddConstant(v)
	dest := c.alloc()
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpLoadConst, A: dest, B: idx}, bytecode.DebugInfo{})
	return dest
}

func (c *ctx) compileIdent(id parser.Ident) (int, error) {
	ns, local, qualified := splitDotted(id.Name)
	if !qualified {
		if reg, ok := c.scope[id.Name]; ok {
			return reg, nil
		}
		ns, local = c.namespace, id.Name
	}
	sym := c.m.EnterSymbol(ns, local)
	dest := c.alloc()
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpLoadGlobal, A: dest, B: int(sym)}, bytecode.DebugInfo{Line: id.Line, Column: id.Column})
	return dest, nil
}

func (c *ctx) compileApp(fn parser.Expr, args []parser.Expr) (int, error) {
	calleeReg, err := c.compileExpr(fn)
	if err != nil {
		return 0, err
	}
	argRegs := make([]int, len(args))
	for i, a := range args {
		r, err := c.compileExpr(a)
		if err != nil {
			return 0, err
		}
		argRegs[i] = r
	}
	block := c.allocN(len(argRegs))
	for i, r := range argRegs {
		c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: block + i, B: r}, bytecode.DebugInfo{})
	}
	dest := c.alloc()
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpApply, A: dest, B: calleeReg, C: block, D: len(argRegs)}, bytecode.DebugInfo{})
	return dest, nil
}

func (c *ctx) compileIf(ifE parser.If) (int, error) {
	condReg, err := c.compileExpr(ifE.Cond)
	if err != nil {
		return 0, err
	}
	falseSym := c.m.EnterSymbol("System", "false")
	dest := c.alloc()

	testIdx := c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseData, A: condReg, B: int(falseSym)}, bytecode.DebugInfo{})

	thenReg, err := c.compileExpr(ifE.Then)
	if err != nil {
		return 0, err
	}
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: dest, B: thenReg}, bytecode.DebugInfo{})
	endJump := c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpJump}, bytecode.DebugInfo{})

	elseStart := len(c.chunk.Code)
	c.chunk.PatchTarget(testIdx, elseStart)
	elseReg, err := c.compileExpr(ifE.Else)
	if err != nil {
		return 0, err
	}
	c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: dest, B: elseReg}, bytecode.DebugInfo{})

	end := len(c.chunk.Code)
	c.chunk.PatchTarget(endJump, end)
	return dest, nil
}

func (c *ctx) compileCase(caseE parser.Case) (int, error) {
	scrutReg, err := c.compileExpr(caseE.Scrutinee)
	if err != nil {
		return 0, err
	}
	dest := c.alloc()
	var endJumps []int
	catchAll := false

	for _, clause := range caseE.Clauses {
		switch pat := clause.Pattern.(type) {
		case parser.PWildcard, parser.PVar:
			if v, ok := pat.(parser.PVar); ok {
				// Shadow only for the duration of this clause's body.
				prev, had := c.scope[v.Name]
				c.scope[v.Name] = scrutReg
				bodyReg, err := c.compileExpr(clause.Body)
				if err != nil {
					return 0, err
				}
				if had {
					c.scope[v.Name] = prev
				} else {
					delete(c.scope, v.Name)
				}
				c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: dest, B: bodyReg}, bytecode.DebugInfo{})
			} else {
				bodyReg, err := c.compileExpr(clause.Body)
				if err != nil {
					return 0, err
				}
				c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: dest, B: bodyReg}, bytecode.DebugInfo{})
			}
			catchAll = true

		default:
			testIdx, err := c.emitPatternTest(scrutReg, clause.Pattern)
			if err != nil {
				return 0, err
			}
			skip := c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpJump}, bytecode.DebugInfo{})
			c.chunk.PatchTarget(testIdx, len(c.chunk.Code))
			bodyReg, err := c.compileExpr(clause.Body)
			if err != nil {
				return 0, err
			}
			c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpMove, A: dest, B: bodyReg}, bytecode.DebugInfo{})
			endJumps = append(endJumps, c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpJump}, bytecode.DebugInfo{}))
			// A failed test falls through to the skip jump, which lands on
			// the next clause.
			c.chunk.PatchTarget(skip, len(c.chunk.Code))
		}
		if catchAll {
			break // a variable/wildcard clause is an unconditional catch-all
		}
	}

	if !catchAll {
		c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpFail}, bytecode.DebugInfo{})
	}
	end := len(c.chunk.Code)
	for _, j := range endJumps {
		c.chunk.PatchTarget(j, end)
	}
	return dest, nil
}

// emitPatternTest emits the single test instruction for a literal or
// constructor pattern, leaving its jump target unpatched (the caller
// patches it to the clause's body start).
func (c *ctx) emitPatternTest(scrutReg int, pat parser.Pattern) (int, error) {
	switch p := pat.(type) {
	case parser.PInt:
		idx := c.chunk.AddConstant(value.Int(p.Value))
		return c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseEq, A: scrutReg, B: idx}, bytecode.DebugInfo{}), nil
	case parser.PFloat:
		idx := c.chunk.AddConstant(value.Float(p.Value))
		return c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseEq, A: scrutReg, B: idx}, bytecode.DebugInfo{}), nil
	case parser.PChar:
		idx := c.chunk.AddConstant(value.Char(p.Value))
		return c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseEq, A: scrutReg, B: idx}, bytecode.DebugInfo{}), nil
	case parser.PText:
		idx := c.chunk.AddConstant(value.Text(p.Value))
		return c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseEq, A: scrutReg, B: idx}, bytecode.DebugInfo{}), nil
	case parser.PCtor:
		ns, local, ok := splitDotted3(p.Name)
		if !ok {
			return 0, fmt.Errorf("constructor pattern %q must be namespace-qualified", p.Name)
		}
		sym := c.m.EnterSymbol(ns, local)
		return c.chunk.Emit(bytecode.Instruction{Op: bytecode.OpCaseData, A: scrutReg, B: int(sym)}, bytecode.DebugInfo{}), nil
	default:
		return 0, fmt.Errorf("compiler: unhandled pattern %T", pat)
	}
}

func splitDotted(name string) (ns, local string, qualified bool) {
	i := strings.IndexByte(name, '.')
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}

func splitDotted3(name string) (ns, local string, ok bool) {
	n, l, q := splitDotted(name)
	return n, l, q
}
