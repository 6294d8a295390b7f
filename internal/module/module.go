// Package module implements the module manager: it loads a translation
// unit — either a source file or a native-extension module — and
// integrates its exports into a Machine, maintaining a loaded-set keyed
// by canonical path to avoid double-loading and to detect import
// cycles.
package module

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ilex-lang/ilex/internal/bytecode"
	"github.com/ilex-lang/ilex/internal/compiler"
	ilexerrors "github.com/ilex-lang/ilex/internal/errors"
	"github.com/ilex-lang/ilex/internal/lexer"
	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/parser"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// Native is the native-extension contract: imports() names what must
// load first; exports(machine) returns the combinators to register
// once those dependencies are resolved.
type Native interface {
	Imports() []string
	Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator
}

// loadState tracks a module's position in the loaded-set during one
// Manager's lifetime: absent (never seen), loading (on the current
// recursion stack — a cycle if seen again), or done.
type loadState int

const (
	notSeen loadState = iota
	loading
	done
)

// Manager owns the loaded-set, the search paths, and the registry of
// built-in native modules.
type Manager struct {
	mu            sync.Mutex
	state         map[string]loadState
	includePaths  []string // source search path, -I
	libraryPaths  []string // native-extension search path, -L
	nativeModules map[string]Native
	m             *machine.Machine
	r             *reducer.Reducer
	preludeOnce   sync.Once
}

// New constructs a Manager bound to m. The caller registers built-in
// native modules with RegisterNative before calling Prelude or Load.
func New(m *machine.Machine, r *reducer.Reducer) *Manager {
	return &Manager{
		state:         make(map[string]loadState),
		nativeModules: make(map[string]Native),
		m:             m,
		r:             r,
	}
}

func (mgr *Manager) AddIncludePath(dir string) { mgr.includePaths = append(mgr.includePaths, dir) }
func (mgr *Manager) AddLibraryPath(dir string) { mgr.libraryPaths = append(mgr.libraryPaths, dir) }

// RegisterNative installs a built-in native-extension module under
// name, making it loadable by that name without a file-system lookup.
func (mgr *Manager) RegisterNative(name string, mod Native) {
	mgr.nativeModules[name] = mod
}

// Prelude loads the built-in System module (and any other registered
// base libraries) before any user file runs, exactly once regardless
// of how many times it is called.
func (mgr *Manager) Prelude(baseLibraries ...string) error {
	var err error
	mgr.preludeOnce.Do(func() {
		err = mgr.LoadNative("System")
		if err != nil {
			return
		}
		for _, lib := range baseLibraries {
			if err = mgr.LoadNative(lib); err != nil {
				return
			}
		}
	})
	return err
}

// LoadNative loads a native-extension module by name: resolves its
// declared imports first,
// then registers its exports.
func (mgr *Manager) LoadNative(name string) error {
	mgr.mu.Lock()
	switch mgr.state[name] {
	case done:
		mgr.mu.Unlock()
		return nil
	case loading:
		mgr.mu.Unlock()
		return ilexerrors.New(ilexerrors.ImportError, ilexerrors.Position{}, "import cycle at module %q", name)
	}
	mgr.state[name] = loading
	mgr.mu.Unlock()

	mod, ok := mgr.nativeModules[name]
	if !ok {
		return ilexerrors.New(ilexerrors.ImportError, ilexerrors.Position{}, "native module %q not found", name)
	}

	imports := mod.Imports()
	g := new(errgroup.Group)
	for _, dep := range imports {
		dep := dep
		g.Go(func() error { return mgr.LoadNative(dep) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, c := range mod.Exports(mgr.m, mgr.r) {
		if err := mgr.m.Define(c); err != nil {
			return ilexerrors.Wrap(err, ilexerrors.DuplicateErr, ilexerrors.Position{}, "module %q", name)
		}
	}

	mgr.mu.Lock()
	mgr.state[name] = done
	mgr.mu.Unlock()
	return nil
}

// LoadSource loads a source translation unit by canonical path: runs
// the reader→lexer→parser→compiler pipeline, recursively resolves its
// declared imports (see loadImport), then registers every compiled
// combinator under its fully-qualified symbol id.
func (mgr *Manager) LoadSource(path string) error {
	canonical, err := filepath.Abs(path)
	if err != nil {
		canonical = path
	}

	mgr.mu.Lock()
	switch mgr.state[canonical] {
	case done:
		mgr.mu.Unlock()
		return nil
	case loading:
		mgr.mu.Unlock()
		return ilexerrors.New(ilexerrors.ImportError, ilexerrors.Position{File: path}, "import cycle at module %q", canonical)
	}
	mgr.state[canonical] = loading
	mgr.mu.Unlock()

	src, err := os.ReadFile(canonical)
	if err != nil {
		return ilexerrors.Wrap(err, ilexerrors.ImportError, ilexerrors.Position{File: path}, "reading %q", path)
	}

	toks := lexer.New(string(src), path).Tokenize()
	p := parser.New(toks, path)
	mod := p.Parse()
	if len(p.Errors) > 0 {
		return ilexerrors.Wrap(p.Errors[0], ilexerrors.SyntaxError, ilexerrors.Position{File: path}, "parsing %q", path)
	}

	for _, imp := range mod.Imports {
		if err := mgr.loadImport(imp); err != nil {
			return err
		}
	}

	namespace := moduleNamespace(path)
	specs, err := compiler.Compile(mod, namespace, mgr.m)
	if err != nil {
		return ilexerrors.Wrap(err, ilexerrors.CompileError, ilexerrors.Position{File: path}, "compiling %q", path)
	}
	for _, spec := range specs {
		comb := bytecode.NewCombinator(spec, mgr.m, mgr.r)
		if err := mgr.m.Define(comb); err != nil {
			return ilexerrors.Wrap(err, ilexerrors.DuplicateErr, ilexerrors.Position{File: path}, "defining %s", spec.Name)
		}
	}

	mgr.mu.Lock()
	mgr.state[canonical] = done
	mgr.mu.Unlock()
	return nil
}

// loadImport tries a declared import as a built-in native module
// first, then searches includePaths for a same-named source file.
// libraryPaths is not consulted: native modules are found only among
// those registered with RegisterNative.
func (mgr *Manager) loadImport(name string) error {
	if _, ok := mgr.nativeModules[name]; ok {
		return mgr.LoadNative(name)
	}
	for _, dir := range mgr.includePaths {
		candidate := filepath.Join(dir, name+".ix")
		if _, err := os.Stat(candidate); err == nil {
			return mgr.LoadSource(candidate)
		}
	}
	return ilexerrors.New(ilexerrors.ImportError, ilexerrors.Position{}, "module %q not found on include path", name)
}

func moduleNamespace(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
