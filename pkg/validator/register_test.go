package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidate_RegistersNotBlank(t *testing.T) {
	var v interface{ Var(any, string) error }
	require.NotPanics(t, func() { v = newValidate() })

	assert.NoError(t, v.Var("Laptop", "notblank"))
	assert.Error(t, v.Var(" \t ", "notblank"))
}
