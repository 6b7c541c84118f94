// Package simd provides a portable 4-lane float32 vector used by the
// force kernel. Every operation is a fixed unrolled loop over the lanes so
// the compiler can keep the lanes in registers.
package simd

import "math"

// Lanes is the vector width.
const Lanes = 4

// rsqrtMagic seeds the bit-level reciprocal square root estimate.
const rsqrtMagic = 0x5f375a86

type Vec4 [Lanes]float32

func Splat(v float32) Vec4 {
	return Vec4{v, v, v, v}
}

// Load reads the first four elements of s.
func Load(s []float32) Vec4 {
	_ = s[3]
	return Vec4{s[0], s[1], s[2], s[3]}
}

func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a Vec4) Mul(b Vec4) Vec4 {
	return Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func (a Vec4) Div(b Vec4) Vec4 {
	return Vec4{a[0] / b[0], a[1] / b[1], a[2] / b[2], a[3] / b[3]}
}

// Scale multiplies every lane by s.
func (a Vec4) Scale(s float32) Vec4 {
	return Vec4{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

// Sum adds the lanes together as (a0+a1)+(a2+a3).
func (a Vec4) Sum() float32 {
	return (a[0] + a[1]) + (a[2] + a[3])
}

// RsqrtEstimate returns a coarse per-lane estimate of 1/sqrt(a), good to
// roughly 3.5% relative error for positive finite inputs.
func (a Vec4) RsqrtEstimate() Vec4 {
	return Vec4{
		RsqrtEstimate(a[0]),
		RsqrtEstimate(a[1]),
		RsqrtEstimate(a[2]),
		RsqrtEstimate(a[3]),
	}
}

// RsqrtStep returns (3 - a*b) / 2, the Newton-Raphson correction factor
// for a reciprocal square root estimate y of a when b = y*y.
func (a Vec4) RsqrtStep(b Vec4) Vec4 {
	return Vec4{
		(3 - a[0]*b[0]) * 0.5,
		(3 - a[1]*b[1]) * 0.5,
		(3 - a[2]*b[2]) * 0.5,
		(3 - a[3]*b[3]) * 0.5,
	}
}

// Rsqrt approximates 1/sqrt(a) with an estimate refined by one
// Newton-Raphson iteration.
func (a Vec4) Rsqrt() Vec4 {
	y := a.RsqrtEstimate()
	return y.Mul(a.RsqrtStep(y.Mul(y)))
}

// RsqrtEstimate is the scalar form of Vec4.RsqrtEstimate.
func RsqrtEstimate(x float32) float32 {
	return math.Float32frombits(rsqrtMagic - math.Float32bits(x)>>1)
}

// Rsqrt is the scalar form of Vec4.Rsqrt and yields bit-identical lanes.
func Rsqrt(x float32) float32 {
	y := RsqrtEstimate(x)
	return y * ((3 - x*(y*y)) * 0.5)
}
