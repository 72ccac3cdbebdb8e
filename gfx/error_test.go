package gfx

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestShaderErrorCarriesLog(t *testing.T) {
	err := errors.Wrap(&ShaderError{Stage: "compile", Log: "0:3(5): error: syntax error\n"}, "failed to compile fragment shader")

	var se *ShaderError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "compile", se.Stage)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestErrorSet(t *testing.T) {
	var set ErrorSet
	assert.NoError(t, set.Err())

	set.Append(nil, errors.New("a"), nil, errors.New("b"))
	assert.Equal(t, 2, set.Len())
	assert.EqualError(t, set.Err(), "a\nb\n")
}
