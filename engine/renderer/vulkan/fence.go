package vulkan

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/prisma/engine/core"
)

type VulkanFence struct {
	Handle     vk.Fence
	IsSignaled bool
}

func NewFence(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fence := &VulkanFence{
		IsSignaled: createSignaled,
	}

	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if fence.IsSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var pFence vk.Fence
	if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &pFence); res != vk.Success {
		err := fmt.Errorf("failed to create fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	fence.Handle = pFence
	return fence, nil
}

func (vf *VulkanFence) FenceDestroy(context *VulkanContext) {
	if vf.Handle != nil {
		vk.DestroyFence(context.Device.LogicalDevice, vf.Handle, context.Allocator)
		vf.Handle = nil
	}
	vf.IsSignaled = false
}

func (vf *VulkanFence) FenceWait(context *VulkanContext, timeoutNs uint64) bool {
	if vf.IsSignaled {
		return true
	}
	result := vk.WaitForFences(context.Device.LogicalDevice, 1, []vk.Fence{vf.Handle}, vk.True, timeoutNs)
	switch result {
	case vk.Success:
		vf.IsSignaled = true
		return true
	case vk.Timeout:
		core.LogWarn("fence wait timed out")
	default:
		core.LogError("fence wait failed: %s", VulkanResultString(result))
	}
	return false
}

func (vf *VulkanFence) FenceSignaled(context *VulkanContext) bool {
	if vf.IsSignaled {
		return true
	}
	if vk.GetFenceStatus(context.Device.LogicalDevice, vf.Handle) == vk.Success {
		vf.IsSignaled = true
	}
	return vf.IsSignaled
}

func (vf *VulkanFence) FenceReset(context *VulkanContext) error {
	if res := vk.ResetFences(context.Device.LogicalDevice, 1, []vk.Fence{vf.Handle}); res != vk.Success {
		err := fmt.Errorf("failed to reset fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	vf.IsSignaled = false
	return nil
}

type pendingFence struct {
	value uint64
	fence *VulkanFence
}

// queueFenceDevice projects the queue's binary fences onto the
// monotonic counter the frame pacer tracks. Submissions on a single
// queue complete in order, so pending entries are consumed front to
// back.
type queueFenceDevice struct {
	context   *VulkanContext
	pending   []pendingFence
	completed uint64
}

func newQueueFenceDevice(context *VulkanContext) *queueFenceDevice {
	return &queueFenceDevice{context: context}
}

// register records that the submission carrying this fence value was
// handed the given binary fence.
func (d *queueFenceDevice) register(value uint64, fence *VulkanFence) {
	d.pending = append(d.pending, pendingFence{value: value, fence: fence})
}

func (d *queueFenceDevice) CompletedValue() uint64 {
	for len(d.pending) > 0 {
		head := d.pending[0]
		if !head.fence.FenceSignaled(d.context) {
			break
		}
		d.completed = head.value
		d.pending = d.pending[1:]
	}
	return d.completed
}

func (d *queueFenceDevice) WaitFor(value uint64) {
	for len(d.pending) > 0 && d.pending[0].value <= value {
		head := d.pending[0]
		head.fence.FenceWait(d.context, math.MaxUint64)
		d.completed = head.value
		d.pending = d.pending[1:]
	}
	if d.completed < value {
		// No submission carried this value (the frame was aborted
		// before submit), so there is nothing to wait on.
		d.completed = value
	}
}
