// Package machine implements the Machine: the owner of the symbol
// table, the combinator table, and the Data-value singleton cache. A
// Machine is independently constructible and tearable down, so
// singletons like nil/cons/true/false are cached on the instance
// rather than as package-level Go variables.
package machine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

// Machine owns everything a running program needs to resolve a name to
// a callable or a constant: the symbol table, the combinator table
// indexed by symbol id, and a cache of Data singletons.
type Machine struct {
	mu          sync.RWMutex
	symbols     *symbol.Table
	combinators map[symbol.ID]value.Combinator
	dataCache   map[symbol.ID]value.Data

	// InstanceID tags this Machine in debug-dump banners;
	// it plays no role in evaluation.
	InstanceID uuid.UUID
}

func New() *Machine {
	return &Machine{
		symbols:     symbol.NewTable(),
		combinators: make(map[symbol.ID]value.Combinator),
		dataCache:   make(map[symbol.ID]value.Data),
		InstanceID:  uuid.New(),
	}
}

// Symbols exposes the underlying symbol table for read access (the
// compiler and module manager both need to intern names into the same
// table the Machine uses).
func (m *Machine) Symbols() *symbol.Table { return m.symbols }

// EnterSymbol interns (ns, name) and returns its id.
func (m *Machine) EnterSymbol(ns, name string) symbol.ID {
	return m.symbols.Enter(ns, name)
}

// GetDataSymbol returns the singleton Data value for id, creating and
// caching it on first call.
func (m *Machine) GetDataSymbol(id symbol.ID) value.Data {
	m.mu.RLock()
	if d, ok := m.dataCache[id]; ok {
		m.mu.RUnlock()
		return d
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.dataCache[id]; ok {
		return d
	}
	d := value.Data{Sym: id}
	m.dataCache[id] = d
	return d
}

// GetDataString interns (ns, name) and returns its Data singleton.
func (m *Machine) GetDataString(ns, name string) value.Data {
	return m.GetDataSymbol(m.EnterSymbol(ns, name))
}

// Define registers combinator under its own symbol id. It fails if a
// combinator is already registered there, so that a
// double-load of the same module cannot silently overwrite exports.
func (m *Machine) Define(c value.Combinator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := c.Symbol()
	if existing, ok := m.combinators[id]; ok {
		return fmt.Errorf("machine: %s already registered (redefining with %s)", existing.Name(), c.Name())
	}
	m.combinators[id] = c
	return nil
}

// Redefine registers combinator under its own symbol id unconditionally,
// overwriting any prior registration. Used only by the REPL, where a
// user is expected to be able to re-enter a definition.
func (m *Machine) Redefine(c value.Combinator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.combinators[c.Symbol()] = c
}

// Lookup returns the combinator registered at id, or ok=false. This is
// the only query the reducer makes of the Machine.
func (m *Machine) Lookup(id symbol.ID) (value.Combinator, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.combinators[id]
	return c, ok
}

// NumCombinators reports how many combinators are currently registered,
// used by debug/REPL banners.
func (m *Machine) NumCombinators() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.combinators)
}
