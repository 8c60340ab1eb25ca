package components

import (
	"github.com/spaghettifunk/prisma/engine/math"
)

/**
 * @brief Pitch limit in degrees. Stops the orbit from flipping over
 * the poles of the model.
 */
const pitchLimitDegrees float32 = 89.0

/**
 * @brief OrbitCamera tracks the viewer's pose around the model: Euler
 * angles in degrees plus the distance from the orbit center. The
 * backends consume the pose directly; no view matrix is cached here.
 */
type OrbitCamera struct {
	Yaw      float32
	Pitch    float32
	Roll     float32
	Distance float32

	homeDistance float32
	minDistance  float32
	maxDistance  float32
}

func NewOrbitCamera(distance, minDistance, maxDistance float32) *OrbitCamera {
	c := &OrbitCamera{
		homeDistance: distance,
		minDistance:  minDistance,
		maxDistance:  maxDistance,
	}
	c.Reset()
	return c
}

// Reset returns the camera to the front-facing home pose.
func (c *OrbitCamera) Reset() {
	c.Yaw = 0
	c.Pitch = 0
	c.Roll = 0
	c.Distance = math.Clamp(c.homeDistance, c.minDistance, c.maxDistance)
}

// Rotate applies a mouse-drag delta in degrees. Pitch is clamped to
// avoid gimbal flip at the poles.
func (c *OrbitCamera) Rotate(yawDegrees, pitchDegrees float32) {
	c.Yaw += yawDegrees
	for c.Yaw >= 360 {
		c.Yaw -= 360
	}
	for c.Yaw < 0 {
		c.Yaw += 360
	}
	c.Pitch = math.Clamp(c.Pitch+pitchDegrees, -pitchLimitDegrees, pitchLimitDegrees)
}

// Spin advances the yaw only, used for the idle turntable rotation.
func (c *OrbitCamera) Spin(yawDegrees float32) {
	c.Rotate(yawDegrees, 0)
}

// Zoom moves the camera along the view axis. Positive steps zoom in.
func (c *OrbitCamera) Zoom(amount float32) {
	c.Distance = math.Clamp(c.Distance-amount, c.minDistance, c.maxDistance)
}
