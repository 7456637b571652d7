package engine

import "fmt"

// PredIdent is a predicate identity: either a user predicate or a system
// (built-in) predicate (§3).
type PredIdent interface {
	isPredIdent()
	String() string
}

// UserPred identifies a predicate defined by user clauses.
type UserPred struct{ Name Atom }

func (UserPred) isPredIdent()     {}
func (p UserPred) String() string { return string(p.Name) }

// SystemPred identifies a predicate implemented by a host built-in. Arity
// is part of the identity itself, matching the `sys:atom/arity` surface
// syntax (§6).
type SystemPred struct {
	Name  Atom
	Arity int
}

func (SystemPred) isPredIdent() {}
func (p SystemPred) String() string {
	return fmt.Sprintf("sys:%s/%d", p.Name, p.Arity)
}

// Signature is the (identity, arity) dispatch key of §3.
type Signature struct {
	Ident PredIdent
	Arity int
}

func (s Signature) String() string {
	switch id := s.Ident.(type) {
	case UserPred:
		return fmt.Sprintf("%s/%d", id.Name, s.Arity)
	case SystemPred:
		return id.String()
	default:
		return "?/?"
	}
}

// UserSig is a convenience constructor for a user-predicate Signature.
func UserSig(name Atom, arity int) Signature {
	return Signature{Ident: UserPred{Name: name}, Arity: arity}
}

// SysSig is a convenience constructor for a system-predicate Signature.
func SysSig(name Atom, arity int) Signature {
	return Signature{Ident: SystemPred{Name: name, Arity: arity}, Arity: arity}
}
