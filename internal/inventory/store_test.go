package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmacedo/abcstock/internal/common"
	"github.com/jmacedo/abcstock/internal/model"
)

// fakeStorage records SaveAll calls and can be primed to fail.
type fakeStorage struct {
	loadItems []model.Item
	loadErr   error
	saveErr   error
	saved     [][]model.Item
}

func (f *fakeStorage) LoadAll(_ context.Context) ([]model.Item, error) {
	return f.loadItems, f.loadErr
}

func (f *fakeStorage) SaveAll(_ context.Context, items []model.Item) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	saved := make([]model.Item, len(items))
	copy(saved, items)
	f.saved = append(f.saved, saved)
	return nil
}

func (f *fakeStorage) Close() error { return nil }

func newTestStore(t *testing.T) (*Store, *fakeStorage) {
	t.Helper()
	storage := &fakeStorage{}
	return NewStore(storage), storage
}

func mustItem(t *testing.T, code, name string, moves int, price float64) *model.Item {
	t.Helper()
	item, err := model.NewItem(code, name, moves, price)
	require.NoError(t, err)
	return item
}

func TestStoreAddAndFind(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	require.NoError(t, store.Add(ctx, mustItem(t, "sku1", "Widget", 100, 10)))

	t.Run("find any case", func(t *testing.T) {
		for _, code := range []string{"SKU1", "sku1", "Sku1"} {
			item, ok := store.Find(code)
			require.True(t, ok, "code %q", code)
			assert.Equal(t, "SKU1", item.Code)
			assert.Equal(t, "Widget", item.Name)
		}
	})

	t.Run("blank code is not found", func(t *testing.T) {
		_, ok := store.Find("")
		assert.False(t, ok)
		_, ok = store.Find("   ")
		assert.False(t, ok)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, ok := store.Find("SKU2")
		assert.False(t, ok)
	})

	t.Run("add persisted once", func(t *testing.T) {
		require.Len(t, storage.saved, 1)
		require.Len(t, storage.saved[0], 1)
		assert.Equal(t, "SKU1", storage.saved[0][0].Code)
	})
}

func TestStoreAddDuplicateCode(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))
	saves := len(storage.saved)

	err := store.Add(ctx, mustItem(t, "sku1", "Widget Again", 5, 2))
	require.Error(t, err)
	var dup *common.DuplicateCodeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "SKU1", dup.Code)

	// Collection unchanged, nothing extra persisted.
	assert.Equal(t, 1, store.Len())
	assert.Len(t, storage.saved, saves)
}

func TestStoreAddRollbackOnIntegrityFailure(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// Constructable but invalid under the pre-commit gate: no economic signal.
	item, err := model.NewItem("SKU1", "Widget", 0, 0)
	require.NoError(t, err)

	err = store.Add(ctx, item)
	require.Error(t, err)
	var integrity *common.IntegrityError
	require.ErrorAs(t, err, &integrity)

	// Rolled back by removal.
	assert.Equal(t, 0, store.Len())
	_, ok := store.Find("SKU1")
	assert.False(t, ok)
}

func TestStoreAddRollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)
	storage.saveErr = errors.New("disk full")

	err := store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, store.Len())
}

func TestStoreListAllIsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))

	items := store.ListAll()
	require.Len(t, items, 1)
	items[0].Name = "Mutated"
	items[0].UnitPrice = -99

	stored, ok := store.Find("SKU1")
	require.True(t, ok)
	assert.Equal(t, "Widget", stored.Name)
	assert.InDelta(t, 10.0, stored.UnitPrice, 0)
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		store, _ := newTestStore(t)
		err := store.Update(ctx, "NOPE", ItemUpdate{Name: "X", MovesPerMonth: 1, UnitPrice: 1})
		var notFound *common.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "NOPE", notFound.Code)
	})

	t.Run("applies new values", func(t *testing.T) {
		store, storage := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))

		err := store.Update(ctx, "sku1", ItemUpdate{Name: "Widget Mk2", MovesPerMonth: 50, UnitPrice: 20})
		require.NoError(t, err)

		item, ok := store.Find("SKU1")
		require.True(t, ok)
		assert.Equal(t, "Widget Mk2", item.Name)
		assert.Equal(t, 50, item.MovesPerMonth)
		assert.InDelta(t, 20.0, item.UnitPrice, 0)
		require.Len(t, storage.saved, 2)
	})

	t.Run("rollback restores fields without dropping the item", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))

		err := store.Update(ctx, "SKU1", ItemUpdate{Name: "", MovesPerMonth: 100, UnitPrice: 10})
		var integrity *common.IntegrityError
		require.ErrorAs(t, err, &integrity)

		item, ok := store.Find("SKU1")
		require.True(t, ok)
		assert.Equal(t, "Widget", item.Name)
		assert.Equal(t, 100, item.MovesPerMonth)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("rollback on persist failure", func(t *testing.T) {
		store, storage := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))

		storage.saveErr = errors.New("disk full")
		err := store.Update(ctx, "SKU1", ItemUpdate{Name: "Widget Mk2", MovesPerMonth: 1, UnitPrice: 1})
		require.Error(t, err)

		item, ok := store.Find("SKU1")
		require.True(t, ok)
		assert.Equal(t, "Widget", item.Name)
		assert.Equal(t, 100, item.MovesPerMonth)
	})
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("blank code", func(t *testing.T) {
		store, _ := newTestStore(t)
		removed, err := store.Remove(ctx, "  ")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("unknown code leaves collection unchanged", func(t *testing.T) {
		store, storage := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))
		saves := len(storage.saved)

		removed, err := store.Remove(ctx, "SKU2")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, store.Len())
		assert.Len(t, storage.saved, saves)
	})

	t.Run("removes exactly the named item", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU2", "Gadget", 10, 5)))

		removed, err := store.Remove(ctx, "sku1")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, 1, store.Len())

		_, ok := store.Find("SKU1")
		assert.False(t, ok)
		survivor, ok := store.Find("SKU2")
		require.True(t, ok)
		// Sole survivor holds all the value, which lands past the B ceiling.
		assert.Equal(t, model.ClassC, survivor.Classification)
		assert.InDelta(t, 100.0, survivor.AccumulatedPercentage, 1e-9)
	})

	t.Run("reinsert on persist failure", func(t *testing.T) {
		store, storage := newTestStore(t)
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU1", "Widget", 100, 10)))
		require.NoError(t, store.Add(ctx, mustItem(t, "SKU2", "Gadget", 10, 5)))

		storage.saveErr = errors.New("disk full")
		removed, err := store.Remove(ctx, "SKU1")
		require.Error(t, err)
		assert.False(t, removed)

		// Original order preserved.
		items := store.ListAll()
		require.Len(t, items, 2)
		assert.Equal(t, "SKU1", items[0].Code)
		assert.Equal(t, "SKU2", items[1].Code)
	})
}

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads persisted items", func(t *testing.T) {
		storage := &fakeStorage{loadItems: []model.Item{
			{Code: "SKU1", Name: "Widget", MovesPerMonth: 100, UnitPrice: 10, Classification: model.ClassA},
			{Code: "SKU2", Name: "Gadget", MovesPerMonth: 10, UnitPrice: 5, Classification: model.ClassC},
		}}
		store := NewStore(storage)
		require.NoError(t, store.Load(ctx))
		assert.Equal(t, 2, store.Len())

		// Persisted classification survives the load untouched.
		item, ok := store.Find("SKU1")
		require.True(t, ok)
		assert.Equal(t, model.ClassA, item.Classification)
	})

	t.Run("load failure surfaces", func(t *testing.T) {
		storage := &fakeStorage{loadErr: errors.New("backend down")}
		store := NewStore(storage)
		err := store.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend down")
	})
}
