package app

import (
	"context"
	"testing"

	"github.com/alexanderramin/crudforge/internal/config"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/db"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/service"
	"github.com/alexanderramin/crudforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(baseURL string) config.Config {
	cfg := config.Default()
	cfg.Backend.BaseURL = baseURL
	cfg.Backend.MaxRetries = 0
	cfg.DBPath = db.MemoryPath
	return cfg
}

func TestNew_WiresServices(t *testing.T) {
	fb := testutil.NewFakeBackend(t, map[string]any{
		"/api/menus": []any{testutil.RawNode(1, "Home")},
	})
	svc, err := New(testConfig(fb.URL), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer svc.Close()

	res, err := svc.Trees.Tree(context.Background(), contract.NewTreeRequest(domain.TreeMenu))
	require.NoError(t, err)
	assert.Equal(t, 1, res.NodeCount)

	snaps, err := svc.Snapshots.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestNew_OfflineUsesSnapshotsOnly(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Offline = true
	svc, err := New(cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Trees.Tree(context.Background(), contract.NewTreeRequest(domain.TreeMenu))
	assert.ErrorIs(t, err, service.ErrOffline)

	_, err = svc.Sync.Sync(context.Background(), contract.SyncRequest{})
	assert.ErrorIs(t, err, service.ErrOffline)
}

func TestNew_ActiveDefaultsFromConfig(t *testing.T) {
	fb := testutil.NewFakeBackend(t, map[string]any{
		"/api/features": []any{map[string]any{"id": 1, "name": "No flag"}},
	})
	cfg := testConfig(fb.URL)
	cfg.ActiveDefaults[domain.TreeFeature] = false
	svc, err := New(cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	res, err := svc.Trees.Tree(context.Background(), contract.NewTreeRequest(domain.TreeFeature))
	require.NoError(t, err)
	assert.False(t, res.Roots[0].IsActive)
}
