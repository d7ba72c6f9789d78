package tests

import (
	"context"
	"math"
	"sync"
	"testing"

	"bistro-backend/order-svc/internal/domain"
	"bistro-backend/order-svc/internal/service"
	"bistro-backend/order-svc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*storage.MemoryStore, *service.CartService) {
	t.Helper()
	store := storage.NewMemoryStore()
	catalog := service.NewMenuService(store, nil, nil)
	return store, service.NewCartService(store, catalog)
}

func TestCartService_AddItem(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	ctx := context.Background()

	tests := []struct {
		name          string
		menuItemID    int64
		quantity      int
		expectedError error
	}{
		{name: "success", menuItemID: soup.ID, quantity: 2},
		{name: "zero_quantity", menuItemID: soup.ID, quantity: 0, expectedError: domain.ErrInvalidQuantity},
		{name: "negative_quantity", menuItemID: soup.ID, quantity: -3, expectedError: domain.ErrInvalidQuantity},
		{name: "max_quantity", menuItemID: soup.ID, quantity: domain.MaxLineQuantity},
		{name: "over_max_quantity", menuItemID: soup.ID, quantity: domain.MaxLineQuantity + 1, expectedError: domain.ErrInvalidQuantity},
		{name: "overflowing_quantity", menuItemID: soup.ID, quantity: math.MaxInt, expectedError: domain.ErrInvalidQuantity},
		{name: "missing_menu_id", menuItemID: 0, quantity: 1, expectedError: domain.ErrMissingFields},
		{name: "unknown_menu_item", menuItemID: 999, quantity: 1, expectedError: domain.ErrMenuItemNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			cart, err := svc.AddItem(ctx, "user-"+testCase.name, testCase.menuItemID, testCase.quantity)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, cart)
				return
			}
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, testCase.quantity, cart.Items[0].Quantity)
			assert.Equal(t, "Soup", cart.Items[0].Name)
		})
	}

	_, err := store.GetCart(ctx, "user-zero_quantity")
	assert.ErrorIs(t, err, domain.ErrCartNotFound, "a rejected add must not create a cart")
}

func TestCartService_AddItemAccumulates(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	bread := seedMenuItem(t, store, "Bread", "2.00", true)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", soup.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", bread.ID, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u1", soup.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, soup.ID, cart.Items[0].MenuItemID)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.True(t, money("34.50").Equal(cart.Subtotal), "subtotal %s", cart.Subtotal)
}

func TestCartService_AddItemCapsLine(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", soup.ID, 600)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "u1", soup.ID, 401)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	cart, err := svc.AddItem(ctx, "u1", soup.ID, 400)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.MaxLineQuantity, cart.Items[0].Quantity, "a rejected add leaves the line unchanged")

	_, err = store.AddItem(ctx, "u1", soup.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	ctx := context.Background()

	_, err := svc.RemoveItem(ctx, "nobody", soup.ID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = svc.AddItem(ctx, "u1", soup.ID, 1)
	require.NoError(t, err)

	first, err := svc.RemoveItem(ctx, "u1", soup.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)

	second, err := svc.RemoveItem(ctx, "u1", soup.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Items, second.Items)
}

func TestCartService_GetCart(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	stew := seedMenuItem(t, store, "Stew", "9.00", true)
	pie := seedMenuItem(t, store, "Pie", "4.00", true)
	ctx := context.Background()

	empty, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.Subtotal.IsZero())

	for _, id := range []int64{soup.ID, stew.ID, pie.ID} {
		_, err := svc.AddItem(ctx, "u1", id, 1)
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteMenuItem(ctx, stew.ID))
	pie.IsAvailable = false
	require.NoError(t, store.UpdateMenuItem(ctx, pie))

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 3)

	assert.False(t, cart.Items[0].Missing)
	assert.True(t, cart.Items[0].IsAvailable)

	assert.True(t, cart.Items[1].Missing)
	assert.False(t, cart.Items[1].IsAvailable)

	assert.False(t, cart.Items[2].Missing)
	assert.False(t, cart.Items[2].IsAvailable)

	assert.True(t, money("6.50").Equal(cart.Subtotal), "only available lines count, got %s", cart.Subtotal)
}

func TestCartService_ConcurrentAddsAreSummed(t *testing.T) {
	store, svc := newCartFixture(t)
	soup := seedMenuItem(t, store, "Soup", "6.50", true)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, "u1", soup.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := store.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, workers, cart.Items[0].Quantity)
}
