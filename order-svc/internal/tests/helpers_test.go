package tests

import (
	"context"
	"testing"

	"bistro-backend/order-svc/internal/domain"
	"bistro-backend/order-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seedMenuItem(t *testing.T, store *storage.MemoryStore, name, price string, available bool) *domain.MenuItem {
	t.Helper()
	item := &domain.MenuItem{
		Name:        name,
		Description: name + " of the day",
		Price:       decimal.RequireFromString(price),
		CategoryID:  1,
		IsAvailable: available,
	}
	require.NoError(t, store.CreateMenuItem(context.Background(), item))
	return item
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
