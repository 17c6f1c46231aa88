//go:build integration

package integration

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator_Concurrent(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Acme Ltd")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormTenantRepository(tdb.DB).Save(ctx, tenant))

	gen := persistence.NewGormSequenceGenerator(tdb.DB)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		got  []int64
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := gen.Next(ctx, tenant.ID, shared.PrefixSalesInvoice, 2026)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			got = append(got, n)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, n := range got {
		assert.Equal(t, int64(i+1), n, "numbers are unique and gap-free")
	}
}

func TestSequenceGenerator_RollsBackWithCaller(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Acme Ltd")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormTenantRepository(tdb.DB).Save(ctx, tenant))

	gen := persistence.NewGormSequenceGenerator(tdb.DB)
	txm := persistence.NewGormTransactionManager(tdb.DB)

	n, err := gen.Next(ctx, tenant.ID, shared.PrefixJournalEntry, 2026)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	errAbort := shared.NewDomainError("ABORTED", "aborted")
	err = txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		n, err := gen.Next(txCtx, tenant.ID, shared.PrefixJournalEntry, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	n, err = gen.Next(ctx, tenant.ID, shared.PrefixJournalEntry, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "the aborted number is reused")
}
