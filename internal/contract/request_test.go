package contract

import (
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewTreeRequest_SetsDefaults(t *testing.T) {
	req := NewTreeRequest(domain.TreeFeature)

	assert.Equal(t, domain.TreeFeature, req.Kind)
	assert.Equal(t, domain.ViewActive, req.View)
	assert.Empty(t, req.ScopeID)
}
