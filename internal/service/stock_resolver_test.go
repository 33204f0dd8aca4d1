package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStockTakesMaxOfSources(t *testing.T) {
	index := serviceIndex()

	// snapshot higher than embedded
	resolver := newTestResolver(index, &stubSnapshot{available: map[string]int{"FARO-LOUNGE-SET": 7}})
	record := resolver.ResolveStock(context.Background(), "FARO-LOUNGE-SET")
	assert.Equal(t, 7, record.Available)
	assert.True(t, record.InStock)

	// embedded higher than snapshot
	resolver = newTestResolver(index, &stubSnapshot{available: map[string]int{"FARO-LOUNGE-SET": 1}})
	record = resolver.ResolveStock(context.Background(), "FARO-LOUNGE-SET")
	assert.Equal(t, 3, record.Available)
}

func TestResolveStockUnknownSKUDefaultsOptimistic(t *testing.T) {
	resolver := newTestResolver(serviceIndex(), &stubSnapshot{})

	record := resolver.ResolveStock(context.Background(), "NEVER-HEARD-OF-IT")

	assert.Equal(t, 10, record.Available)
	assert.True(t, record.InStock)
}

func TestResolveStockSnapshotOnlyRecord(t *testing.T) {
	resolver := newTestResolver(serviceIndex(), &stubSnapshot{available: map[string]int{"FARO-COVER": 0}})

	// snapshot says zero, embedded says five: max wins
	record := resolver.ResolveStock(context.Background(), "FARO-COVER")

	assert.Equal(t, 5, record.Available)
	assert.True(t, record.InStock)
}

func TestResolveStockDegradesOnSnapshotError(t *testing.T) {
	resolver := newTestResolver(serviceIndex(), &stubSnapshot{err: errors.New("redis down")})

	record := resolver.ResolveStock(context.Background(), "LIDO-DINING-6")

	assert.Equal(t, 4, record.Available, "snapshot failure falls back to catalog stock")
	assert.True(t, record.InStock)
}

func TestResolveStockZeroSnapshotRecordIsNotDefaulted(t *testing.T) {
	// a snapshot record with zero units is an explicit sellout, not a
	// missing record, so the optimistic default must not apply
	resolver := newTestResolver(serviceIndex(), &stubSnapshot{available: map[string]int{"DISCONTINUED-SET": 0}})

	record := resolver.ResolveStock(context.Background(), "DISCONTINUED-SET")

	assert.Equal(t, 0, record.Available)
	assert.False(t, record.InStock)
}
