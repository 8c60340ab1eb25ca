package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrbitCameraClampsDistance(t *testing.T) {
	c := NewOrbitCamera(4, 1.5, 12)

	c.Zoom(100)
	assert.Equal(t, float32(1.5), c.Distance)

	c.Zoom(-100)
	assert.Equal(t, float32(12), c.Distance)
}

func TestOrbitCameraPitchLimit(t *testing.T) {
	c := NewOrbitCamera(4, 1.5, 12)

	c.Rotate(0, 500)
	assert.Equal(t, pitchLimitDegrees, c.Pitch)

	c.Rotate(0, -1000)
	assert.Equal(t, -pitchLimitDegrees, c.Pitch)
}

func TestOrbitCameraYawWraps(t *testing.T) {
	c := NewOrbitCamera(4, 1.5, 12)

	c.Rotate(370, 0)
	assert.InDelta(t, 10, c.Yaw, 1e-4)

	c.Rotate(-20, 0)
	assert.InDelta(t, 350, c.Yaw, 1e-4)
}

func TestOrbitCameraReset(t *testing.T) {
	c := NewOrbitCamera(40, 1.5, 12)
	c.Rotate(15, 15)

	c.Reset()
	assert.Zero(t, c.Yaw)
	assert.Zero(t, c.Pitch)
	// Home distance outside the range snaps to the nearest bound.
	assert.Equal(t, float32(12), c.Distance)
}
