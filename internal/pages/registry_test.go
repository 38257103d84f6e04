package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range List() {
		assert.False(t, seen[d.ID], "duplicate page ID: %s", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Path)
	}
}

func TestFind(t *testing.T) {
	d, ok := Find("students")
	require.True(t, ok)
	assert.Equal(t, "Students", d.Label)

	_, ok = Find("no_such_page")
	assert.False(t, ok)
	assert.False(t, Exists("no_such_page"))
	assert.True(t, Exists("staff_permissions"))
}

func TestListReturnsCopy(t *testing.T) {
	a := List()
	a[0].Label = "mutated"
	b := List()
	assert.NotEqual(t, a[0].Label, b[0].Label)
}
