package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mohsinsiddi/tokenforge/internal/contract"
)

func TestCountFunctions(t *testing.T) {
	abi := []contract.ABIEntry{
		{Name: "transfer", Type: "function"},
		{Name: "Transfer", Type: "event"},
		{Type: "constructor"},
		{Name: "balanceOf", Type: "function"},
	}
	assert.Equal(t, 2, countFunctions(abi))
	assert.Equal(t, 0, countFunctions(nil))
}
