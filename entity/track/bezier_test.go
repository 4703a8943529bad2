package track

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
)

func TestArcLengthRoundTrip(t *testing.T) {
	b := newQuadBezier(
		geometry.Point{X: 20, Y: 20},
		geometry.Point{X: 220, Y: 20},
		geometry.Point{X: 220, Y: 220},
	)
	assert.Greater(t, b.Length(), 0.0)
	// 对[0, L]上的任意弧长s，arcLengthUpToT(arcLengthToT(s))应还原s
	for i := 0; i <= 100; i++ {
		s := b.Length() * float64(i) / 100
		got := b.ArcLengthUpToT(b.ArcLengthToT(s))
		assert.InDelta(t, s, got, 1e-3, "s=%f", s)
	}
}

func TestArcLengthMonotonic(t *testing.T) {
	b := newQuadBezier(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 100, Y: 0},
		geometry.Point{X: 100, Y: 100},
	)
	prev := -1.0
	for i := 0; i <= 200; i++ {
		s := b.ArcLengthUpToT(float64(i) / 200)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
	assert.InDelta(t, b.Length(), prev, 1e-6)
}

func TestZeroLengthCurve(t *testing.T) {
	p := geometry.Point{X: 60, Y: 60}
	b := newQuadBezier(p, p, p)
	assert.Equal(t, 0.0, b.Length())
	// 退化曲线上的弧长反解不报错，返回截断值
	assert.Equal(t, 0.0, b.ArcLengthToT(0))
	assert.Equal(t, 1.0, b.ArcLengthToT(10))
	got := b.Point(b.ArcLengthToT(5))
	assert.Equal(t, p.X, got.X)
	assert.Equal(t, p.Y, got.Y)
}

func TestBezierAngleReverse(t *testing.T) {
	b := newQuadBezier(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 100, Y: 0},
		geometry.Point{X: 200, Y: 0},
	)
	// 正向沿+X行进，反向应相差180度
	assert.InDelta(t, 0, b.Angle(0.5, false), 1e-9)
	assert.InDelta(t, 180, math.Abs(b.Angle(0.5, true)), 1e-9)
}
