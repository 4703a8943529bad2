package track

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

const (
	// 总弧长数值积分的区间数
	lengthSimpsonN = 64
	// 部分弧长数值积分的区间数
	partialSimpsonN = 32
	// 弧长反解的收敛阈值与最大迭代次数
	newtonTolerance = 1e-5
	newtonMaxIter   = 20
	// 等弧长采样表的采样数
	evenSampleN = 150
)

// quadBezier 二次贝塞尔曲线
// 功能：曲线轨道与道岔曲线支线的几何基础，提供按弧长的位置求解
// 算法说明：
// 1. 总弧长：对速度函数|B'(t)|做Simpson数值积分
// 2. 弧长反解：牛顿迭代求解arcLength(t)=s，初值来自等弧长采样表
// 3. 采样表：构造时预计算150个等弧长点对应的t值，只作为迭代初值，
//    不影响结果精度
type quadBezier struct {
	p0, p1, p2 geometry.Point // 起点、控制点、终点

	length float64   // 总弧长（像素）
	evenT  []float64 // 等弧长采样表，evenT[i]≈弧长i/evenSampleN*length处的t
}

func newQuadBezier(p0, p1, p2 geometry.Point) *quadBezier {
	b := &quadBezier{p0: p0, p1: p1, p2: p2}
	b.length = b.simpson(0, 1, lengthSimpsonN)
	b.buildEvenTable()
	return b
}

// 获取总弧长
func (b *quadBezier) Length() float64 {
	return b.length
}

// Point 获取参数t处的曲线坐标
func (b *quadBezier) Point(t float64) geometry.Point {
	u := 1 - t
	return geometry.Point{
		X: u*u*b.p0.X + 2*u*t*b.p1.X + t*t*b.p2.X,
		Y: u*u*b.p0.Y + 2*u*t*b.p1.Y + t*t*b.p2.Y,
	}
}

// Derivative 获取参数t处的一阶导数
func (b *quadBezier) Derivative(t float64) geometry.Point {
	u := 1 - t
	return geometry.Point{
		X: 2*u*(b.p1.X-b.p0.X) + 2*t*(b.p2.X-b.p1.X),
		Y: 2*u*(b.p1.Y-b.p0.Y) + 2*t*(b.p2.Y-b.p1.Y),
	}
}

// Speed 获取参数t处的速度|B'(t)|
func (b *quadBezier) Speed(t float64) float64 {
	d := b.Derivative(t)
	return math.Hypot(d.X, d.Y)
}

// Angle 获取参数t处的切线方向（度）
// 参数：reverse-沿t减小方向行进时为true，方向取反
func (b *quadBezier) Angle(t float64, reverse bool) float64 {
	d := b.Derivative(t)
	if reverse {
		d.X, d.Y = -d.X, -d.Y
	}
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// ArcLengthUpToT 获取[0, t]区间的弧长
func (b *quadBezier) ArcLengthUpToT(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return b.length
	}
	return b.simpson(0, t, partialSimpsonN)
}

// ArcLengthToT 弧长反解，求解arcLength(t)=s
// 功能：给定从起点量起的弧长s，求对应的曲线参数t
// 参数：s-弧长（像素），超出[0, length]时截断到端点
// 返回：曲线参数t∈[0, 1]
// 算法说明：
// 1. 初值取等弧长采样表的线性插值，表为空时退化为s/length
// 2. 牛顿迭代t -= (arcLength(t)-s)/|B'(t)|，每步截断到[0, 1]
// 3. 相邻两次迭代差小于1e-5视为收敛；最多迭代20次，不收敛时
//    返回当前最优估计
func (b *quadBezier) ArcLengthToT(s float64) float64 {
	if s <= 0 {
		return 0
	}
	// 退化曲线（总长0）对任意正弧长都映射到终点
	if s >= b.length {
		return 1
	}
	t := b.initialGuess(s)
	for i := 0; i < newtonMaxIter; i++ {
		speed := b.Speed(t)
		if speed == 0 {
			break
		}
		next := lo.Clamp(t-(b.ArcLengthUpToT(t)-s)/speed, 0, 1)
		if math.Abs(next-t) < newtonTolerance {
			return next
		}
		t = next
	}
	return t
}

// simpson 复合Simpson积分计算[t0, t1]区间的弧长
// 参数：n-区间数，必须为偶数
func (b *quadBezier) simpson(t0, t1 float64, n int) float64 {
	h := (t1 - t0) / float64(n)
	sum := b.Speed(t0) + b.Speed(t1)
	for i := 1; i < n; i++ {
		t := t0 + float64(i)*h
		if i%2 == 1 {
			sum += 4 * b.Speed(t)
		} else {
			sum += 2 * b.Speed(t)
		}
	}
	return sum * h / 3
}

// buildEvenTable 预计算等弧长采样表
func (b *quadBezier) buildEvenTable() {
	if b.length <= 0 {
		return
	}
	b.evenT = make([]float64, evenSampleN+1)
	t := 0.0
	for i := 1; i < evenSampleN; i++ {
		s := b.length * float64(i) / evenSampleN
		// 单调推进：从上一个采样点出发做一步牛顿粗解
		for iter := 0; iter < newtonMaxIter; iter++ {
			speed := b.Speed(t)
			if speed == 0 {
				break
			}
			next := lo.Clamp(t-(b.ArcLengthUpToT(t)-s)/speed, 0, 1)
			if math.Abs(next-t) < newtonTolerance {
				t = next
				break
			}
			t = next
		}
		b.evenT[i] = t
	}
	b.evenT[evenSampleN] = 1
}

// initialGuess 获取弧长反解的迭代初值
func (b *quadBezier) initialGuess(s float64) float64 {
	if len(b.evenT) == 0 {
		return lo.Clamp(s/b.length, 0, 1)
	}
	pos := s / b.length * evenSampleN
	i := int(pos)
	if i >= evenSampleN {
		return 1
	}
	frac := pos - float64(i)
	return b.evenT[i] + (b.evenT[i+1]-b.evenT[i])*frac
}
