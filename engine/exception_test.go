package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileError_ErrorsAs(t *testing.T) {
	var err error = redefinitionError(UserSig(Atom("foo"), 1))

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
	assert.Equal(t, ErrRedefinedPredicate, compileErr.Kind)
	assert.Contains(t, compileErr.Error(), "foo/1")
}

func TestInvariantError_ErrorsAsAndCarriesPC(t *testing.T) {
	var err error = stackUnderflowError(UserSig(Atom("bar"), 0), 7)

	var invErr *InvariantError
	assert.True(t, errors.As(err, &invErr))
	assert.Equal(t, ErrStackUnderflow, invErr.Kind)
	assert.Equal(t, 7, invErr.PC)
	assert.Contains(t, invErr.Error(), "bar/0")
	assert.Contains(t, invErr.Error(), "pc=7")
}

func TestInvariantError_TooManyVariables(t *testing.T) {
	err := tooManyVariablesError(mainSig, 3)
	assert.Equal(t, ErrTooManyVariables, err.Kind)
	assert.Contains(t, err.Error(), "max-variables")
}
