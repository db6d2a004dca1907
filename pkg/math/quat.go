package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromEuler builds a quaternion from pitch (X), yaw (Y) and roll (Z)
// angles in radians, applied in Z, Y, X order.
func QuatFromEuler(euler Vec3) Quat {
	cx := float32(math.Cos(float64(euler.X) * 0.5))
	cy := float32(math.Cos(float64(euler.Y) * 0.5))
	cz := float32(math.Cos(float64(euler.Z) * 0.5))
	sx := float32(math.Sin(float64(euler.X) * 0.5))
	sy := float32(math.Sin(float64(euler.Y) * 0.5))
	sz := float32(math.Sin(float64(euler.Z) * 0.5))

	return Quat{
		W: cx*cy*cz + sx*sy*sz,
		X: sx*cy*cz - cx*sy*sz,
		Y: cx*sy*cz + sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
	}
}

// EulerAngles returns pitch (X), yaw (Y) and roll (Z) in radians.
// It is the inverse of QuatFromEuler for yaw within (-90°, 90°).
func (q Quat) EulerAngles() Vec3 {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)

	py := 2 * (y*z + w*x)
	px := w*w - x*x - y*y + z*z
	var pitch float64
	if math.Abs(px) < 1e-7 && math.Abs(py) < 1e-7 {
		// Gimbal lock: pitch is undefined, fold it into the atan of x/w.
		pitch = 2 * math.Atan2(x, w)
	} else {
		pitch = math.Atan2(py, px)
	}

	yaw := math.Asin(clamp64(-2*(x*z-w*y), -1, 1))
	roll := math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)

	return Vec3{float32(pitch), float32(yaw), float32(roll)}
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Array returns the components in glTF order (x, y, z, w).
func (q Quat) Array() [4]float32 {
	return [4]float32{q.X, q.Y, q.Z, q.W}
}

func clamp64(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
