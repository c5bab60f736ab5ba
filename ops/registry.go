// Package ops is the primitive-operation registry. Operation providers
// register named handlers during process start-up; the interpreter resolves
// names to handlers at load or dispatch time and invokes them against its
// operand stack. The table is append-only: once a name resolves, it keeps
// resolving to a handler for the remainder of the process.
package ops

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pocketvm-dev/pocketvm/vm"
)

// Handler implements one primitive operation. It pops its operands from the
// tail of the stack, does its work, and pushes its results back. A handler
// owns no state beyond what it captured at registration time; errors it
// returns are passed through to the interpreter untouched.
type Handler func(s *vm.Stack) error

// ErrNotFound is returned by Lookup for a name that was never registered.
var ErrNotFound = errors.New("operator not registered")

// Registry maps operation names to handlers. The zero value is not usable;
// call NewRegistry. Safe for concurrent use: registrations for different
// names and lookups from any number of goroutines may overlap, though the
// expected shape is that all registration finishes before dispatch begins.
type Registry struct {
	mu    sync.RWMutex
	table map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{table: make(map[string]Handler)}
}

// Register binds fn under name. Registering a name that is already present
// replaces the earlier handler: the last registration wins. An empty name
// or nil handler is a programmer error and panics; registration happens
// from init functions, where failing loudly is the only useful signal.
func (r *Registry) Register(name string, fn Handler) {
	if name == "" {
		panic("ops: Register with empty operator name")
	}
	if fn == nil {
		panic(fmt.Sprintf("ops: Register %q with nil handler", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[name] = fn
}

// Has reports whether name has been registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.table[name]
	return ok
}

// Lookup returns the handler registered under name. The returned handler
// stays valid for the life of the process, so callers may resolve once and
// cache it across invocations. Looking up a name that was never registered
// returns an error wrapping ErrNotFound; there is no sentinel handler.
func (r *Registry) Lookup(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return fn, nil
}

// Names returns a sorted snapshot of every registered operation name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.table))
	for n := range r.table {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// Default is the process-wide registry that bundled operation providers
// register into from their init functions. Consumers take a *Registry
// explicitly; Default is just the conventional instance to hand them.
var Default = NewRegistry()

// Register binds fn under name in the Default registry.
func Register(name string, fn Handler) {
	Default.Register(name, fn)
}

// Has reports whether name is registered in the Default registry.
func Has(name string) bool {
	return Default.Has(name)
}

// Lookup resolves name in the Default registry.
func Lookup(name string) (Handler, error) {
	return Default.Lookup(name)
}
