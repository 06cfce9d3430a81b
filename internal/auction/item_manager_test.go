package auction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSpecs(n int) []ItemSpec {
	specs := make([]ItemSpec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, ItemSpec{Description: "item", MinimumBid: 10 * (i + 1)})
	}
	return specs
}

func TestLoadPromotesUpToMaxActive(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(5))

	require.Len(t, m.ActiveItems(), 3)
	require.Equal(t, 2, m.PendingCount())
}

func TestLoadWithFewerItemsThanSlots(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(2))

	require.Len(t, m.ActiveItems(), 2)
	require.Equal(t, 0, m.PendingCount())
}

func TestActiveItemsSnapshotIsStableAndSorted(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(5))

	first := m.ActiveItems()
	second := m.ActiveItems()
	require.Equal(t, first, second, "listing without intervening bids must be identical")
	for i := 1; i < len(first); i++ {
		require.Less(t, first[i-1].ID, first[i].ID)
	}
}

func TestLookup(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(3))

	active := m.ActiveItems()
	item, ok := m.Lookup(active[0].ID)
	require.True(t, ok)
	require.Equal(t, active[0].ID, item.ID)

	_, ok = m.Lookup(999)
	require.False(t, ok)
}

func TestMarkSoldPromotesPending(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(4))

	soldID := m.ActiveItems()[0].ID
	promoted := m.MarkSold(soldID)
	require.NotNil(t, promoted)
	require.Equal(t, 0, m.PendingCount())

	active := m.ActiveItems()
	require.Len(t, active, 3)
	for _, s := range active {
		require.NotEqual(t, soldID, s.ID)
	}

	// Selling again is a no-op with nothing left to promote.
	require.Nil(t, m.MarkSold(soldID))
}

func TestMarkSoldWithEmptyPending(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(2))

	soldID := m.ActiveItems()[0].ID
	require.Nil(t, m.MarkSold(soldID))
	require.Len(t, m.ActiveItems(), 1)
}

func TestHasActiveAuctions(t *testing.T) {
	m := NewItemManager(3)
	m.Load(testSpecs(3))
	require.False(t, m.HasActiveAuctions(), "no item has a bid yet")

	item, ok := m.Lookup(m.ActiveItems()[0].ID)
	require.True(t, ok)
	item.mu.Lock()
	item.currentBid = 50
	item.currentBidder = 1001
	item.mu.Unlock()

	require.True(t, m.HasActiveAuctions())
}
