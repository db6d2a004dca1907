package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (glTF and OpenGL layout).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Compose builds T * R * S, the local matrix of a glTF node.
func Compose(translation Vec3, rotation Quat, scale Vec3) Mat4 {
	return Translate(translation.X, translation.Y, translation.Z).
		Mul(rotation.ToMat4()).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			t[row*4+col] = m[col*4+row]
		}
	}
	return t
}

// column returns the xyz part of column i.
func (m Mat4) column(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	c00 := m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	c01 := -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	c02 := m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	c03 := -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]

	c10 := -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	c11 := m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	c12 := -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	c13 := m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]

	c20 := m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	c21 := -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	c22 := m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	c23 := -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]

	c30 := -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	c31 := m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	c32 := -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	c33 := m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*c00 + m[4]*c01 + m[8]*c02 + m[12]*c03
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det

	return Mat4{
		c00 * invDet, c01 * invDet, c02 * invDet, c03 * invDet,
		c10 * invDet, c11 * invDet, c12 * invDet, c13 * invDet,
		c20 * invDet, c21 * invDet, c22 * invDet, c23 * invDet,
		c30 * invDet, c31 * invDet, c32 * invDet, c33 * invDet,
	}
}

// Decomposition is the result of Decompose. Skew and Perspective are
// computed for completeness; callers editing a node ignore them.
type Decomposition struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
	Skew        Vec3
	Perspective Vec4
}

const decomposeEpsilon = 1e-6

// Decompose splits an affine (optionally projective) matrix into
// translation, rotation, scale, skew and perspective terms using
// Gram-Schmidt orthogonalisation of the upper 3x3 block.
// ok is false when the matrix is degenerate (m[15] == 0).
func (m Mat4) Decompose() (d Decomposition, ok bool) {
	if absf(m[15]) < decomposeEpsilon {
		return d, false
	}

	local := m
	for i := range local {
		local[i] /= m[15]
	}

	// Perspective is solved against the matrix with its projective row
	// cleared; a singular result means the matrix cannot be decomposed.
	persp := local
	persp[3], persp[7], persp[11] = 0, 0, 0
	persp[15] = 1
	if absf(persp.determinant3()) < decomposeEpsilon {
		return d, false
	}

	if absf(local[3]) > decomposeEpsilon || absf(local[7]) > decomposeEpsilon || absf(local[11]) > decomposeEpsilon {
		rhs := Vec4{local[3], local[7], local[11], local[15]}
		d.Perspective = persp.Inverse().Transpose().MulVec4(rhs)
		local[3], local[7], local[11] = 0, 0, 0
		local[15] = 1
	} else {
		d.Perspective = Vec4{0, 0, 0, 1}
	}

	d.Translation = Vec3{local[12], local[13], local[14]}

	row := [3]Vec3{local.column(0), local.column(1), local.column(2)}

	d.Scale.X = row[0].Length()
	row[0] = row[0].Normalize()

	d.Skew.Z = row[0].Dot(row[1])
	row[1] = row[1].Sub(row[0].Scale(d.Skew.Z))

	d.Scale.Y = row[1].Length()
	row[1] = row[1].Normalize()
	d.Skew.Z /= d.Scale.Y

	d.Skew.Y = row[0].Dot(row[2])
	row[2] = row[2].Sub(row[0].Scale(d.Skew.Y))
	d.Skew.X = row[1].Dot(row[2])
	row[2] = row[2].Sub(row[1].Scale(d.Skew.X))

	d.Scale.Z = row[2].Length()
	row[2] = row[2].Normalize()
	d.Skew.Y /= d.Scale.Z
	d.Skew.X /= d.Scale.Z

	// A negative determinant means a reflection; fold it into the scale.
	if row[0].Dot(row[1].Cross(row[2])) < 0 {
		d.Scale = d.Scale.Scale(-1)
		for i := range row {
			row[i] = row[i].Scale(-1)
		}
	}

	d.Rotation = quatFromBasis(row)
	return d, true
}

// quatFromBasis converts an orthonormal basis (columns of a rotation matrix)
// into a quaternion.
func quatFromBasis(row [3]Vec3) Quat {
	at := func(i, j int) float32 {
		switch j {
		case 0:
			return row[i].X
		case 1:
			return row[i].Y
		default:
			return row[i].Z
		}
	}

	var q [4]float32 // x, y, z, w
	trace := row[0].X + row[1].Y + row[2].Z
	if trace > 0 {
		root := float32(math.Sqrt(float64(trace + 1)))
		q[3] = 0.5 * root
		root = 0.5 / root
		q[0] = root * (row[1].Z - row[2].Y)
		q[1] = root * (row[2].X - row[0].Z)
		q[2] = root * (row[0].Y - row[1].X)
	} else {
		next := [3]int{1, 2, 0}
		i := 0
		if row[1].Y > row[0].X {
			i = 1
		}
		if row[2].Z > at(i, i) {
			i = 2
		}
		j := next[i]
		k := next[j]

		root := float32(math.Sqrt(float64(at(i, i) - at(j, j) - at(k, k) + 1)))
		q[i] = 0.5 * root
		root = 0.5 / root
		q[j] = root * (at(i, j) + at(j, i))
		q[k] = root * (at(i, k) + at(k, i))
		q[3] = root * (at(j, k) - at(k, j))
	}
	return Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}
}

// determinant3 returns the determinant of the upper 3x3 block.
func (m Mat4) determinant3() float32 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
