package math

/**
 * @brief A 2-element vector.
 */
type Vec2 struct {
	X, Y float32
}

/**
 * @brief A 3-element vector.
 */
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief A 4-element vector.
 */
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief A 4x4 matrix, typically used to represent object transformations.
 * Laid out row-major in Data.
 */
type Mat4 struct {
	Data [16]float32
}
