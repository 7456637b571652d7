package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubst_FindUnboundVarReturnsItself(t *testing.T) {
	s := NewSubst()
	assert.Equal(t, LogicVar(3), s.Find(LogicVar(3)))
}

func TestSubst_UnionBindsVarToAtom(t *testing.T) {
	s := NewSubst()
	s2, ok := s.Union(LogicVar(1), Atom("foo"))
	require.True(t, ok)
	assert.Equal(t, Term(Atom("foo")), s2.Find(LogicVar(1)))

	// s is untouched — Checkpoint's snapshot-by-pointer relies on this.
	assert.Equal(t, Term(LogicVar(1)), s.Find(LogicVar(1)))
}

func TestSubst_UnionTwoUnboundVarsAliasesOneToTheOther(t *testing.T) {
	s := NewSubst()
	s, ok := s.Union(LogicVar(1), LogicVar(2))
	require.True(t, ok)

	s, ok = s.Union(LogicVar(2), Atom("bar"))
	require.True(t, ok)

	assert.Equal(t, Term(Atom("bar")), s.Find(LogicVar(1)), "binding either alias resolves through the chain")
}

func TestSubst_UnionAtomsMismatchFails(t *testing.T) {
	s := NewSubst()
	_, ok := s.Union(Atom("foo"), Atom("bar"))
	assert.False(t, ok)
}

func TestSubst_UnionIntegersMatch(t *testing.T) {
	s := NewSubst()
	s2, ok := s.Union(Integer(42), Integer(42))
	require.True(t, ok)
	assert.Same(t, s, s2, "no binding needed for two already-equal ground terms")
}

func TestSubst_UnionAtomAndIntegerFails(t *testing.T) {
	s := NewSubst()
	_, ok := s.Union(Atom("foo"), Integer(1))
	assert.False(t, ok)
}

func TestSubst_UnionCompoundsRecursesArgZero(t *testing.T) {
	// The spec's corrected behaviour (§9): argument 0 must participate in
	// unification, unlike the source this was distilled from.
	left := NewCompound("point", LogicVar(1), Integer(2))
	right := NewCompound("point", Integer(9), Integer(2))

	s := NewSubst()
	s2, ok := s.Union(left, right)
	require.True(t, ok)
	assert.Equal(t, Term(Integer(9)), s2.Find(LogicVar(1)))
}

func TestSubst_UnionCompoundsDifferentFunctorFails(t *testing.T) {
	left := NewCompound("point", Integer(1))
	right := NewCompound("pair", Integer(1))
	s := NewSubst()
	_, ok := s.Union(left, right)
	assert.False(t, ok)
}

func TestSubst_UnionCompoundsDifferentArityFails(t *testing.T) {
	left := NewCompound("point", Integer(1))
	right := NewCompound("point", Integer(1), Integer(2))
	s := NewSubst()
	_, ok := s.Union(left, right)
	assert.False(t, ok)
}

func TestSubst_UnionCompoundAndAtomicFails(t *testing.T) {
	s := NewSubst()
	_, ok := s.Union(NewCompound("point", Integer(1)), Atom("point"))
	assert.False(t, ok)
}

func TestSubst_PriorVersionSurvivesManyInserts(t *testing.T) {
	s := NewSubst()
	versions := make([]*Subst, 0, 50)
	for i := 0; i < 50; i++ {
		var ok bool
		s, ok = s.Union(LogicVar(i), Integer(i))
		require.True(t, ok)
		versions = append(versions, s)
	}

	for i, v := range versions {
		assert.Equal(t, Term(Integer(i)), v.Find(LogicVar(i)))
		for j := i + 1; j < len(versions); j++ {
			assert.Equal(t, Term(LogicVar(j)), v.Find(LogicVar(j)), "later bindings are invisible to earlier snapshots")
		}
	}
}
