// Package symbol interns (namespace, local-name) pairs into dense,
// stable integer ids: every Data value and every registered combinator
// is addressed by an ID from this table, never by name, once loaded.
package symbol

import "sync"

// ID is a dense, non-negative integer identifying a fully-qualified name.
// IDs are stable for the lifetime of the Table that issued them.
type ID int

// Name is a resolved (namespace, local) pair, e.g. ("System", "cons").
type Name struct {
	Namespace string
	Local     string
}

func (n Name) String() string {
	if n.Namespace == "" {
		return n.Local
	}
	return n.Namespace + "." + n.Local
}

// Table is a bijection between Name and ID, safe for concurrent use so
// that the module manager can intern names while loading imports
// concurrently.
type Table struct {
	mu      sync.RWMutex
	byName  map[Name]ID
	byID    []Name
}

func NewTable() *Table {
	return &Table{byName: make(map[Name]ID)}
}

// Enter returns the existing id for (ns, local) or allocates the next
// one. Safe to call concurrently.
func (t *Table) Enter(ns, local string) ID {
	n := Name{Namespace: ns, Local: local}

	t.mu.RLock()
	if id, ok := t.byName[n]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byName[n]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, n)
	t.byName[n] = id
	return id
}

// Lookup returns the id for (ns, local) without allocating, and whether
// it was already interned.
func (t *Table) Lookup(ns, local string) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[Name{Namespace: ns, Local: local}]
	return id, ok
}

// NameOf returns the (namespace, local) pair for id. Panics on an id
// this table never issued — that is an invariant violation, not a recoverable condition.
func (t *Table) NameOf(id ID) Name {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(t.byID) {
		panic("symbol: id not issued by this table")
	}
	return t.byID[id]
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Names returns a sorted-by-id snapshot, used by debug dumps.
func (t *Table) Names() []Name {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Name, len(t.byID))
	copy(out, t.byID)
	return out
}
