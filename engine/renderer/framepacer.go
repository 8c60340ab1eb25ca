package renderer

import (
	"fmt"

	"github.com/spaghettifunk/prisma/engine/core"
)

// FrameSlotCount is the number of frames that may be in flight at once.
const FrameSlotCount = 2

// FenceDevice abstracts the GPU-completion counter a backend signals
// once per submitted frame. Values are monotonically increasing.
type FenceDevice interface {
	// CompletedValue returns the highest fence value the device has
	// reached so far.
	CompletedValue() uint64
	// WaitFor blocks until the device reaches the given value. Bounded
	// by the device making progress, not by wall clock.
	WaitFor(value uint64)
}

type slotState uint8

const (
	slotIdle slotState = iota
	slotRecording
	slotSubmitted
)

type frameSlot struct {
	state slotState
	// fence value the device must reach before this slot's command
	// allocator may be reset and reused
	fenceValue uint64
}

// FramePacer round-robins over a fixed number of frame slots and keeps
// the CPU from reusing a slot whose previous submission the GPU has not
// finished reading.
type FramePacer struct {
	device    FenceDevice
	slots     []frameSlot
	current   int
	nextFence uint64
	lastFence uint64
}

func NewFramePacer(device FenceDevice, slotCount int) *FramePacer {
	if slotCount <= 0 {
		slotCount = FrameSlotCount
	}
	return &FramePacer{
		device:    device,
		slots:     make([]frameSlot, slotCount),
		nextFence: 1,
	}
}

// AcquireSlot begins a frame. If the slot about to be reused was
// submitted and its fence has not been reached, it blocks until the
// device catches up, then marks the slot recording and returns its
// index.
func (p *FramePacer) AcquireSlot() (int, error) {
	slot := &p.slots[p.current]
	if slot.state == slotRecording {
		return 0, fmt.Errorf("frame slot %d is already recording, EndFrame was not called", p.current)
	}
	if slot.state == slotSubmitted && p.device.CompletedValue() < slot.fenceValue {
		p.device.WaitFor(slot.fenceValue)
	}
	slot.state = slotRecording
	return p.current, nil
}

// SubmitSlot ends the frame on the current slot. It stores the fence
// value the backend is about to signal, advances to the next slot and
// returns that value so the backend can signal it after presenting.
func (p *FramePacer) SubmitSlot() (uint64, error) {
	slot := &p.slots[p.current]
	if slot.state != slotRecording {
		return 0, fmt.Errorf("frame slot %d is not recording, BeginFrame was not called", p.current)
	}
	value := p.nextFence
	p.nextFence++
	slot.state = slotSubmitted
	slot.fenceValue = value
	p.lastFence = value
	p.current = (p.current + 1) % len(p.slots)
	return value, nil
}

// WaitIdle blocks until every submitted frame has completed. Used
// before destructive cache invalidation and at shutdown.
func (p *FramePacer) WaitIdle() {
	if p.lastFence == 0 {
		return
	}
	if p.device.CompletedValue() < p.lastFence {
		p.device.WaitFor(p.lastFence)
	}
	for i := range p.slots {
		if p.slots[i].state == slotSubmitted {
			p.slots[i].state = slotIdle
		}
	}
}

// InFlight returns the number of slots whose submissions the device has
// not yet completed.
func (p *FramePacer) InFlight() int {
	completed := p.device.CompletedValue()
	n := 0
	for i := range p.slots {
		if p.slots[i].state == slotSubmitted && p.slots[i].fenceValue > completed {
			n++
		}
	}
	return n
}

// LogState dumps the pacer state at debug level.
func (p *FramePacer) LogState() {
	core.LogDebug("frame pacer: current=%d nextFence=%d inFlight=%d", p.current, p.nextFence, p.InFlight())
}
