package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditService_NormalizesAndWrites(t *testing.T) {
	f := newFixture(t)
	svc := NewEditService(f.sink(false), f.observer)

	res, err := svc.Update(context.Background(), contract.EditRequest{
		Kind: domain.TreeFeature,
		ID:   "12",
		Form: map[string]any{
			"name":           "Refunds",
			"parentId":       "11",
			"isActive":       "",
			"orderNumber":    nil,
			"trial_days":     14,
			"trial_available": 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/features/12", res.Path)
	assert.False(t, res.Queued)

	puts := f.client.putCalls()
	require.Len(t, puts, 1)
	body := puts[0].Body.(map[string]any)
	assert.Equal(t, "Refunds", body["name"])
	assert.Equal(t, int64(11), body["parent_id"])
	assert.Equal(t, false, body["is_active"])
	assert.Equal(t, 0, body["order_number"])
	assert.Equal(t, true, body["trial_available"])
	assert.Equal(t, 14, body["trial_days"])
	assert.Equal(t, "edit", f.observer.last().Name)
}

func TestEditService_DryRunDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	svc := NewEditService(f.sink(false))

	res, err := svc.Update(context.Background(), contract.EditRequest{
		Kind:   domain.TreeMenu,
		ID:     "4",
		Form:   map[string]any{"title": "Home", "parent_id": ""},
		DryRun: true,
	})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Nil(t, res.Payload["parent_id"])
	assert.Contains(t, res.Payload, "parent_id")
	assert.Empty(t, f.client.putCalls())
}

func TestEditService_QueuedWhenUnreachable(t *testing.T) {
	f := newFixture(t)
	f.client.putErr["/api/crud-columns/8"] = fmt.Errorf("connect: %w", backend.ErrUnavailable)
	svc := NewEditService(f.sink(false))

	res, err := svc.Update(context.Background(), contract.EditRequest{
		Kind: domain.TreeColumn,
		ID:   "8",
		Form: map[string]any{"label": "Email"},
	})
	require.NoError(t, err)
	assert.True(t, res.Queued)
}

func TestEditService_RejectsBadTarget(t *testing.T) {
	f := newFixture(t)
	svc := NewEditService(f.sink(false))

	_, err := svc.Update(context.Background(), contract.EditRequest{Kind: domain.TreeMenu})
	assert.Error(t, err)
	_, err = svc.Update(context.Background(), contract.EditRequest{Kind: "widgets", ID: "1"})
	assert.Error(t, err)
}
