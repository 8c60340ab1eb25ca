package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/core"
)

func TestDescriptorPoolAllocatesDistinctSlots(t *testing.T) {
	p := NewDescriptorPool(DescriptorPoolCapacity)

	seen := make(map[DescriptorSlot]bool)
	for i := 0; i < DescriptorPoolCapacity-1; i++ {
		slot, err := p.Allocate()
		require.NoError(t, err)
		assert.False(t, seen[slot], "slot %d handed out twice", slot)
		assert.NotEqual(t, FontSlot(), slot)
		seen[slot] = true
	}
	assert.Equal(t, DescriptorPoolCapacity-1, len(seen))
}

func TestFontSlotIsTheReservedSlot(t *testing.T) {
	assert.Equal(t, DescriptorSlot(FontDescriptorSlot), FontSlot())
}

func TestDescriptorPoolExhaustion(t *testing.T) {
	p := NewDescriptorPool(4)
	for i := 0; i < 3; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}

	_, err := p.Allocate()
	assert.ErrorIs(t, err, core.ErrPoolExhausted)
}

func TestDescriptorPoolReusesFreedSlotLIFO(t *testing.T) {
	p := NewDescriptorPool(DescriptorPoolCapacity)

	a, err := p.Allocate()
	require.NoError(t, err)
	b, err := p.Allocate()
	require.NoError(t, err)

	p.Free(a)
	p.Free(b)

	// most recently freed comes back first, before the high-water
	// mark advances
	got, err := p.Allocate()
	require.NoError(t, err)
	assert.Equal(t, b, got)

	got, err = p.Allocate()
	require.NoError(t, err)
	assert.Equal(t, a, got)

	next, err := p.Allocate()
	require.NoError(t, err)
	assert.NotEqual(t, a, next)
	assert.NotEqual(t, b, next)
}

func TestDescriptorPoolFreeOutOfRangeIsNoOp(t *testing.T) {
	p := NewDescriptorPool(8)

	p.Free(DescriptorSlot(200))
	p.Free(DescriptorSlot(FontDescriptorSlot))

	for i := 0; i < 7; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}
	// the bogus frees must not have entered the free list
	_, err := p.Allocate()
	assert.ErrorIs(t, err, core.ErrPoolExhausted)
}

func TestDescriptorPoolExhaustionRecoversAfterFree(t *testing.T) {
	p := NewDescriptorPool(3)
	a, err := p.Allocate()
	require.NoError(t, err)
	_, err = p.Allocate()
	require.NoError(t, err)
	_, err = p.Allocate()
	require.ErrorIs(t, err, core.ErrPoolExhausted)

	p.Free(a)
	got, err := p.Allocate()
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.Equal(t, 2, p.InUse())
}
