package engine

// Subst is a persistent substitution from LogicVar to Term (§4.1). It is
// represented as a persistent red-black tree, structurally the
// same technique as the teacher's Env (engine/env.go, itself Okasaki-style):
// every insert copies and rebalances the path to the root and returns a new
// *Subst sharing all untouched subtrees with every prior version. A
// Checkpoint (§3) therefore only needs to hold a *Subst pointer — reverting
// to a prior version is a pointer assignment, not a bulk undo.
type Subst struct {
	color       color
	left, right *Subst
	key         LogicVar
	value       Term
}

type color uint8

const (
	red color = iota
	black
)

// NewSubst returns the empty substitution.
func NewSubst() *Subst { return nil }

// Find resolves t through the substitution to its representative (§4.1).
// Non-variable terms resolve to themselves. Termination relies on the
// acyclicity invariant (§3): the substitution may bind a LogicVar to
// itself (a self-loop on a representative) but may not form longer cycles.
func (s *Subst) Find(t Term) Term {
	for {
		v, ok := t.(LogicVar)
		if !ok {
			return t
		}
		bound, ok := s.lookup(v)
		if !ok || bound == Term(v) {
			return v
		}
		t = bound
	}
}

func (s *Subst) lookup(v LogicVar) (Term, bool) {
	node := s
	for node != nil {
		switch {
		case v < node.key:
			node = node.left
		case v > node.key:
			node = node.right
		default:
			return node.value, true
		}
	}
	return nil, false
}

// Union unifies x and y against s, returning the resulting substitution and
// true on success, or (s, false) on unification failure (§4.1, Robinson's
// algorithm). Compound unification folds left-to-right over ALL argument
// positions 0..len — the spec's corrected behaviour; the source this spec
// was distilled from iterated 1..len and silently dropped argument 0 (§9).
func (s *Subst) Union(x, y Term) (*Subst, bool) {
	x, y = s.Find(x), s.Find(y)

	xv, xIsVar := x.(LogicVar)
	yv, yIsVar := y.(LogicVar)

	switch {
	case xIsVar && yIsVar && xv == yv:
		return s, true
	case xIsVar:
		return s.bind(xv, y), true
	case yIsVar:
		return s.bind(yv, x), true
	}

	xc, xIsCompound := x.(Compound)
	yc, yIsCompound := y.(Compound)
	if xIsCompound && yIsCompound {
		if xc.Functor() != yc.Functor() || xc.Arity() != yc.Arity() {
			return s, false
		}
		cur := s
		for i := 0; i < xc.Arity(); i++ {
			var ok bool
			cur, ok = cur.Union(xc.Arg(i), yc.Arg(i))
			if !ok {
				return s, false
			}
		}
		return cur, true
	}
	if xIsCompound || yIsCompound {
		return s, false
	}

	if structurallyEqual(x, y) {
		return s, true
	}
	return s, false
}

func structurallyEqual(x, y Term) bool {
	switch x := x.(type) {
	case Atom:
		y, ok := y.(Atom)
		return ok && x == y
	case Integer:
		y, ok := y.(Integer)
		return ok && x == y
	default:
		return false
	}
}

// bind inserts v ↦ t, returning a new substitution version; s is left
// untouched and remains valid (§4.1 persistence).
func (s *Subst) bind(v LogicVar, t Term) *Subst {
	n := s.insert(v, t)
	n.color = black
	return n
}

func (s *Subst) insert(k LogicVar, v Term) *Subst {
	if s == nil {
		return &Subst{color: red, key: k, value: v}
	}
	switch {
	case k < s.key:
		n := *s
		n.left = s.left.insert(k, v)
		n.balance()
		return &n
	case k > s.key:
		n := *s
		n.right = s.right.insert(k, v)
		n.balance()
		return &n
	default:
		n := *s
		n.value = v
		return &n
	}
}

func isRed(n *Subst) bool { return n != nil && n.color == red }

// balance restores the red-black invariant after an insert, Okasaki-style:
// any of the four red-red violation shapes collapses to the same balanced
// result.
func (s *Subst) balance() {
	switch {
	case isRed(s.left) && isRed(s.left.left):
		a, b, c, d := s.left.left.left, s.left.left.right, s.left.right, s.right
		x, y, z := s.left.left.binding(), s.left.binding(), s.binding()
		*s = Subst{color: red,
			left:  &Subst{color: black, left: a, right: b, key: x.key, value: x.value},
			right: &Subst{color: black, left: c, right: d, key: z.key, value: z.value},
			key:   y.key, value: y.value}
	case isRed(s.left) && isRed(s.left.right):
		a, b, c, d := s.left.left, s.left.right.left, s.left.right.right, s.right
		x, y, z := s.left.binding(), s.left.right.binding(), s.binding()
		*s = Subst{color: red,
			left:  &Subst{color: black, left: a, right: b, key: x.key, value: x.value},
			right: &Subst{color: black, left: c, right: d, key: z.key, value: z.value},
			key:   y.key, value: y.value}
	case isRed(s.right) && isRed(s.right.left):
		a, b, c, d := s.left, s.right.left.left, s.right.left.right, s.right.right
		x, y, z := s.binding(), s.right.left.binding(), s.right.binding()
		*s = Subst{color: red,
			left:  &Subst{color: black, left: a, right: b, key: x.key, value: x.value},
			right: &Subst{color: black, left: c, right: d, key: z.key, value: z.value},
			key:   y.key, value: y.value}
	case isRed(s.right) && isRed(s.right.right):
		a, b, c, d := s.left, s.right.left, s.right.right.left, s.right.right.right
		x, y, z := s.binding(), s.right.binding(), s.right.right.binding()
		*s = Subst{color: red,
			left:  &Subst{color: black, left: a, right: b, key: x.key, value: x.value},
			right: &Subst{color: black, left: c, right: d, key: z.key, value: z.value},
			key:   y.key, value: y.value}
	}
}

type binding struct {
	key   LogicVar
	value Term
}

func (s *Subst) binding() binding { return binding{key: s.key, value: s.value} }
