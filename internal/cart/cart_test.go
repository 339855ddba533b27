package cart_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/linemk/artisan-store/internal/cart"
	"github.com/linemk/artisan-store/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	solace = models.Product{ID: 1, Name: "Solace Time Keep Journal", Price: 850}
	ember  = models.Product{ID: 2, Name: "Ember Time Keep Journal", Price: 850}
	ecru   = models.Product{ID: 3, Name: "Écru Flower Journal", Price: 900}
)

func TestAddItem_IncrementsExisting(t *testing.T) {
	s := cart.NewStore()

	require.NoError(t, s.Add(solace))
	require.NoError(t, s.AddItem(solace, 2))
	require.NoError(t, s.AddItem(ember, 1))

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, cart.Line{ProductID: 1, Name: "Solace Time Keep Journal", UnitPrice: 850, Quantity: 3}, lines[0])
	assert.Equal(t, int64(2), lines[1].ProductID, "insertion order is kept")
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, int64(3400), s.Total())
}

func TestAddItem_RejectsInvalidInput(t *testing.T) {
	s := cart.NewStore()

	assert.ErrorIs(t, s.AddItem(solace, 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddItem(solace, -3), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, s.Add(models.Product{ID: 9, Name: "Broken", Price: -1}), cart.ErrInvalidPrice)
	assert.True(t, s.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	s := cart.NewStore()
	require.NoError(t, s.Add(solace))
	require.NoError(t, s.Add(ember))

	s.RemoveItem(solace.ID)
	s.RemoveItem(42) // отсутствующий товар - не ошибка

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, ember.ID, lines[0].ProductID)
}

func TestSetQuantity(t *testing.T) {
	s := cart.NewStore()
	require.NoError(t, s.Add(solace))

	s.SetQuantity(solace.ID, 5)
	assert.Equal(t, 5, s.Lines()[0].Quantity)

	s.SetQuantity(ember.ID, 3)
	assert.Equal(t, 1, s.Len(), "unknown product is not inserted")

	s.SetQuantity(solace.ID, -1)
	assert.True(t, s.IsEmpty())
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	build := func() *cart.Store {
		s := cart.NewStore()
		require.NoError(t, s.AddItem(solace, 2))
		require.NoError(t, s.AddItem(ember, 1))
		require.NoError(t, s.AddItem(ecru, 4))
		return s
	}

	viaSet := build()
	viaSet.SetQuantity(ember.ID, 0)

	viaRemove := build()
	viaRemove.RemoveItem(ember.ID)

	assert.Equal(t, viaRemove.Lines(), viaSet.Lines())
	assert.Equal(t, viaRemove.Total(), viaSet.Total())
}

func TestClear(t *testing.T) {
	s := cart.NewStore()
	require.NoError(t, s.AddItem(solace, 2))

	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, int64(0), s.Total())
	assert.Equal(t, 0, s.Count())
}

func TestLinesReturnsCopy(t *testing.T) {
	s := cart.NewStore()
	require.NoError(t, s.Add(solace))

	lines := s.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

// Total всегда равен сумме unitPrice × quantity после любой последовательности операций
func TestTotal_MatchesLinesAfterRandomOperations(t *testing.T) {
	products := []models.Product{solace, ember, ecru, {ID: 4, Name: "Noir Red Heart Journal", Price: 1200}}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		s := cart.NewStore()
		for op := 0; op < 40; op++ {
			p := products[rng.Intn(len(products))]
			switch rng.Intn(4) {
			case 0, 1:
				require.NoError(t, s.AddItem(p, rng.Intn(3)+1))
			case 2:
				s.RemoveItem(p.ID)
			case 3:
				s.SetQuantity(p.ID, rng.Intn(5)-1)
			}

			var want int64
			for _, l := range s.Lines() {
				require.GreaterOrEqual(t, l.Quantity, 1, "stored quantity must stay positive")
				want += l.UnitPrice * int64(l.Quantity)
			}
			require.Equal(t, want, s.Total())
		}
	}
}

// операции над разными товарами коммутируют
func TestTotal_OrderIndependent(t *testing.T) {
	a := cart.NewStore()
	require.NoError(t, a.AddItem(solace, 2))
	require.NoError(t, a.AddItem(ecru, 1))
	a.SetQuantity(ecru.ID, 3)
	require.NoError(t, a.AddItem(ember, 1))

	b := cart.NewStore()
	require.NoError(t, b.AddItem(ember, 1))
	require.NoError(t, b.AddItem(ecru, 1))
	b.SetQuantity(ecru.ID, 3)
	require.NoError(t, b.AddItem(solace, 2))

	assert.Equal(t, a.Total(), b.Total())
	assert.Equal(t, int64(850*2+900*3+850), a.Total())
}

func TestRestore(t *testing.T) {
	s := cart.NewStore()
	require.NoError(t, s.Add(ecru))

	s.Restore([]cart.Line{
		{ProductID: 1, Name: "Solace", UnitPrice: 850, Quantity: 1},
		{ProductID: 2, Name: "Ember", UnitPrice: 850, Quantity: 0},
		{ProductID: 1, Name: "Solace", UnitPrice: 850, Quantity: 2},
		{ProductID: 5, Name: "Broken", UnitPrice: -5, Quantity: 1},
	})

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := cart.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Add(solace)
			_ = s.Total()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Count())
}
