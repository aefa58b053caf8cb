package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/crudforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A file-backed cache shares state across pooled connections, so readers
// here really run beside the writer under WAL.
func TestSnapshotRepo_ReadDuringWrite(t *testing.T) {
	database := testutil.NewTestFileDB(t)
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(database)
	require.NoError(t, repo.Save(ctx, testutil.NewTestSnapshot("/api/menus", []any{})))

	var wg sync.WaitGroup
	writeErrs := make(chan error, 20)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			writeErrs <- repo.Save(ctx, testutil.NewTestSnapshot(fmt.Sprintf("/api/crud-modules/%d/columns", i), []any{i}))
		}
	}()

	readErrs := make(chan error, 40)
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := repo.Get(ctx, "/api/menus")
				readErrs <- err
			}
		}()
	}

	wg.Wait()
	close(writeErrs)
	close(readErrs)
	for err := range writeErrs {
		require.NoError(t, err)
	}
	for err := range readErrs {
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 21)
}
