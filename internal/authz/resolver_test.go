package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFailClosed(t *testing.T) {
	assert.False(t, Resolve(nil, "students", ActionView))
	assert.False(t, Resolve([]Grant{}, "students", ActionView))

	grants := []Grant{{PageID: "students", CanView: true}}
	assert.False(t, Resolve(grants, "finance", ActionView), "no record for page")
	assert.False(t, Resolve(grants, "students", Action("export")), "unknown action")
}

func TestResolveActionMapping(t *testing.T) {
	grants := []Grant{{PageID: "tuition", CanView: true, CanEdit: true, CanDelete: false}}

	assert.True(t, Resolve(grants, "tuition", ActionView))
	assert.True(t, Resolve(grants, "tuition", ActionEdit))
	assert.False(t, Resolve(grants, "tuition", ActionDelete))
}

func TestResolveFirstMatchWins(t *testing.T) {
	grants := []Grant{
		{PageID: "library", CanView: false},
		{PageID: "library", CanView: true},
	}
	assert.False(t, Resolve(grants, "library", ActionView),
		"duplicate rows: first record decides")
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(string(a))
		assert.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("export")
	assert.Error(t, err)
	_, err = ParseAction("")
	assert.Error(t, err)
}
