package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"chocostore/internal/domain"
	"chocostore/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "cart:visitor-1"

type mapResolver map[string]domain.Product

func (m mapResolver) Get(id string) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

type failingPort struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingPort) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }

func (f *failingPort) Set(context.Context, string, []byte) error {
	f.sets++
	return f.setErr
}

var (
	nutella = domain.Product{ID: "nutella-3kg", Name: "Nutella 3kg", Price: 25000, InStock: true}
	dubai   = domain.Product{ID: "dubai-200", Name: "Chocolat Dubai 200g", Price: 9000, InStock: false}
	bueno   = domain.Product{ID: "kinder-bueno", Name: "Kinder Bueno x10", Price: 6000, InStock: true}
)

func catalog() mapResolver {
	return mapResolver{nutella.ID: nutella, dubai.ID: dubai, bueno.ID: bueno}
}

func openEmpty(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	port := kv.NewMemory()
	return Open(context.Background(), port, testKey, catalog(), nil), port
}

func storedItems(t *testing.T, port kv.Port) []domain.CartItem {
	t.Helper()
	raw, err := port.Get(context.Background(), testKey)
	require.NoError(t, err)
	var items []domain.CartItem
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestStore_AddToEmptyCart(t *testing.T) {
	s, _ := openEmpty(t)
	s.AddOne(context.Background(), nutella)

	assert.Equal(t, 1, s.TotalItems())
	assert.Equal(t, int64(25000), s.TotalPrice())
}

func TestStore_AddExistingProductMergesQuantity(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, nutella, 1)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, int64(75000), s.TotalPrice())
}

func TestStore_MergeNeverDuplicatesLines(t *testing.T) {
	ctx := context.Background()
	for n := 1; n <= 4; n++ {
		for m := 1; m <= 4; m++ {
			s, _ := openEmpty(t)
			s.AddItem(ctx, bueno, n)
			s.AddItem(ctx, bueno, m)
			lines := s.Lines()
			require.Len(t, lines, 1)
			assert.Equal(t, n+m, lines[0].Quantity)
		}
	}
}

func TestStore_AddIgnoresNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	s, port := openEmpty(t)
	s.AddItem(ctx, nutella, 0)
	s.AddItem(ctx, nutella, -3)

	assert.Empty(t, s.Lines())
	_, err := port.Get(ctx, testKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_OutOfStockProductsCanBeAdded(t *testing.T) {
	s, _ := openEmpty(t)
	s.AddItem(context.Background(), dubai, 2)
	assert.Equal(t, 2, s.TotalItems())
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)
	s.AddItem(ctx, nutella, 1)
	s.AddItem(ctx, bueno, 2)

	s.RemoveItem(ctx, nutella.ID)
	once := s.Lines()
	s.RemoveItem(ctx, nutella.ID)
	twice := s.Lines()

	assert.Equal(t, once, twice)
	require.Len(t, twice, 1)
	assert.Equal(t, bueno.ID, twice[0].Product.ID)
}

func TestStore_UpdateQuantityOnAbsentProductIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	before := s.Snapshot()

	s.UpdateQuantity(ctx, "does-not-exist", 5)

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_UpdateQuantityFloorRemovesLine(t *testing.T) {
	ctx := context.Background()
	s, port := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, bueno, 1)

	s.UpdateQuantity(ctx, nutella.ID, 0)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, bueno.ID, lines[0].Product.ID)
	assert.Equal(t, []domain.CartItem{{ProductID: bueno.ID, Quantity: 1}}, storedItems(t, port))
}

func TestStore_TotalPriceInvariant(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)

	check := func() {
		t.Helper()
		var want int64
		items := 0
		for _, l := range s.Lines() {
			want += int64(l.Quantity) * l.Product.Price
			items += l.Quantity
		}
		assert.Equal(t, want, s.TotalPrice())
		assert.Equal(t, items, s.TotalItems())
	}

	s.AddItem(ctx, nutella, 3)
	check()
	s.AddItem(ctx, dubai, 7)
	check()
	s.UpdateQuantity(ctx, nutella.ID, 1)
	check()
	s.AddItem(ctx, bueno, 4)
	check()
	s.RemoveItem(ctx, dubai.ID)
	check()
	assert.Equal(t, int64(25000+4*6000), s.TotalPrice())
}

func TestStore_ClearResetsEverything(t *testing.T) {
	ctx := context.Background()
	s, port := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, dubai, 1)

	s.Clear(ctx)

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.TotalItems())
	assert.Equal(t, int64(0), s.TotalPrice())
	assert.Empty(t, storedItems(t, port))
}

func TestStore_PersistsIdentifiersAndQuantitiesOnly(t *testing.T) {
	ctx := context.Background()
	s, port := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, bueno, 1)

	raw, err := port.Get(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"nutella-3kg","quantity":2},{"productId":"kinder-bueno","quantity":1}]`, string(raw))
}

func TestStore_ReloadResolvesFromCatalog(t *testing.T) {
	ctx := context.Background()
	s, port := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, dubai, 1)

	repriced := catalog()
	cheaper := nutella
	cheaper.Price = 20000
	repriced[nutella.ID] = cheaper

	reloaded := Open(ctx, port, testKey, repriced, nil)
	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, nutella.ID, lines[0].Product.ID)
	assert.Equal(t, int64(2*20000+9000), reloaded.TotalPrice())
}

func TestStore_ReloadDropsUnknownAndMergesDuplicates(t *testing.T) {
	ctx := context.Background()
	port := kv.NewMemory()
	payload := `[{"productId":"nutella-3kg","quantity":1},{"productId":"gone","quantity":4},{"productId":"nutella-3kg","quantity":2},{"productId":"kinder-bueno","quantity":0}]`
	require.NoError(t, port.Set(ctx, testKey, []byte(payload)))

	s := Open(ctx, port, testKey, catalog(), nil)
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestStore_CorruptPayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, payload := range []string{`{"not":"a list"}`, `[{"productId":`, `null`, ``} {
		port := kv.NewMemory()
		require.NoError(t, port.Set(ctx, testKey, []byte(payload)))
		s := Open(ctx, port, testKey, catalog(), nil)
		assert.Empty(t, s.Lines(), "payload %q", payload)
		assert.Equal(t, int64(0), s.TotalPrice())
	}
}

func TestStore_StorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	port := &failingPort{getErr: errors.New("disk gone"), setErr: errors.New("disk gone")}

	s := Open(ctx, port, testKey, catalog(), nil)
	assert.Empty(t, s.Lines())

	s.AddItem(ctx, nutella, 1)
	s.UpdateQuantity(ctx, nutella.ID, 4)
	assert.Equal(t, 4, s.TotalItems())
	assert.Equal(t, 2, port.sets)
}

func TestStore_LinesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)
	s.AddItem(ctx, nutella, 1)

	lines := s.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := openEmpty(t)
	s.AddItem(ctx, nutella, 2)
	s.AddItem(ctx, dubai, 1)

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.TotalItems)
	assert.Equal(t, int64(59000), snap.TotalPrice)
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, domain.CartSnapshotLine{
		ProductID: nutella.ID,
		Name:      nutella.Name,
		UnitPrice: 25000,
		Quantity:  2,
		LineTotal: 50000,
		InStock:   true,
	}, snap.Lines[0])
	assert.False(t, snap.Lines[1].InStock)
}
