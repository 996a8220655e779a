package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

func TestVisibleDocTypes(t *testing.T) {
	assert.Equal(t, []string{"public", "hr", "admin"}, visibleDocTypes(domain.RoleAdmin))
	assert.Equal(t, []string{"public", "hr"}, visibleDocTypes(domain.RoleHR))
	assert.Equal(t, []string{"public"}, visibleDocTypes(domain.RoleEmployee))

	// Anything unrecognized falls back to least privilege.
	assert.Equal(t, []string{"public"}, visibleDocTypes(domain.Role("root")))
}

func TestVectorToString(t *testing.T) {
	assert.Equal(t, "[]", vectorToString(nil))
	assert.Equal(t, "[0.5,-1,0.25]", vectorToString([]float32{0.5, -1, 0.25}))
}
