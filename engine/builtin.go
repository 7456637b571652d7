package engine

import (
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// BuiltinFunc is a host-implemented predicate body (§6): given the already
// popped argument terms (in declaration order) and the current state, it
// reports whether the call succeeds. A builtin may read or extend
// state.Subst via state.Subst.Union but never touches the operand stack,
// call stack, or choice points directly — those belong to the VM's Call
// dispatch.
type BuiltinFunc func(args []Term, state *State) bool

// Registry maps system-predicate signatures to their host implementation
// (§6). The zero value is usable; NewRegistry is provided for symmetry
// with the rest of the engine's constructors.
type Registry struct {
	funcs map[SystemPred]BuiltinFunc
}

// NewRegistry returns an empty builtin registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[SystemPred]BuiltinFunc{}}
}

// Register installs fn under name/arity. Panics on a duplicate
// registration — a programming error in the host, not a runtime condition
// a caller recovers from.
func (r *Registry) Register(name Atom, arity int, fn BuiltinFunc) {
	key := SystemPred{Name: name, Arity: arity}
	if r.funcs == nil {
		r.funcs = map[SystemPred]BuiltinFunc{}
	}
	if _, exists := r.funcs[key]; exists {
		panic(fmt.Sprintf("engine: builtin %s already registered", key))
	}
	r.funcs[key] = fn
}

// Lookup returns the builtin registered for key, if any.
func (r *Registry) Lookup(key SystemPred) (BuiltinFunc, bool) {
	fn, ok := r.funcs[key]
	return fn, ok
}

// NewStandardRegistry returns a Registry with the engine's own built-ins
// installed: print/1 (side-effecting output, grounded on
// original_source/src/builtins.rs) and sys:hash/2 (a content digest over a
// term's canonical printed form, wiring golang.org/x/crypto/blake2b — the
// crypto dependency the teacher's go.mod already carries, repurposed here
// rather than dropped; see DESIGN.md).
func NewStandardRegistry(out io.Writer) *Registry {
	r := NewRegistry()
	r.Register("print", 1, printBuiltin(out))
	r.Register("hash", 2, hashBuiltin)
	return r
}

// printBuiltin writes args[0]'s printed form with no trailing separator
// (§6; original_source/src/builtins.rs's print writes `"{}"`, no newline) —
// a program strings several print/1 calls together itself, as §8's worked
// examples do via a fail-driven loop, to get any separator at all.
func printBuiltin(out io.Writer) BuiltinFunc {
	return func(args []Term, state *State) bool {
		resolved := state.Subst.Find(args[0])
		fmt.Fprint(out, WriteTermString(resolved))
		return true
	}
}

// hashBuiltin unifies args[1] with a blake2b-256 digest of args[0]'s
// canonical printed form, rendered as a hex-encoded Atom. It gives
// programs in this engine a way to content-address a ground term (e.g.
// for memoizing solved goals at the driver level) without adding a new
// Term variant or touching the 64-bit-integer-only non-goal.
func hashBuiltin(args []Term, state *State) bool {
	resolved := state.Subst.Find(args[0])
	sum := blake2b.Sum256([]byte(WriteTermString(resolved)))
	digest := Atom(fmt.Sprintf("%x", sum))
	next, ok := state.Subst.Union(args[1], digest)
	if !ok {
		return false
	}
	state.Subst = next
	return true
}
