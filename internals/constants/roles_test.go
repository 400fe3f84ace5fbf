// file: internals/constants/roles_test.go
package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKnownRole(t *testing.T) {
	for _, r := range AllRoles {
		assert.True(t, IsKnownRole(r), r)
	}
	assert.False(t, IsKnownRole("superuser"))
	assert.False(t, IsKnownRole(""))
}
