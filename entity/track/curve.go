package track

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
)

// CurvedTrack 曲线轨道
// 功能：二次贝塞尔曲线轨道件，端点为{A, B}
// 说明：列车的弧长进度s统一从A端量起，反向通过时s从总长递减，
// 朝向取切线方向并取反
type CurvedTrack struct {
	baseTrack

	bez *quadBezier
}

func newCurvedTrack(id string, g *grid.Grid, start, control, end gridCell) *CurvedTrack {
	t := &CurvedTrack{
		baseTrack: newBaseTrack(id, entity.TrackTypeCurve, []entity.Endpoint{entity.EndpointA, entity.EndpointB}),
	}
	t.setEndpoint(entity.EndpointA, g.GridToScreen(start.row, start.col), start.row, start.col)
	t.setEndpoint(entity.EndpointB, g.GridToScreen(end.row, end.col), end.row, end.col)
	t.bez = newQuadBezier(
		t.GetEndpointCoords(entity.EndpointA),
		g.GridToScreen(control.row, control.col),
		t.GetEndpointCoords(entity.EndpointB),
	)
	return t
}

func (t *CurvedTrack) checkTraversal(entry, exit entity.Endpoint) {
	if !endpointPair(entry, exit, entity.EndpointA, entity.EndpointB) {
		log.Panicf("track %s: invalid traversal %s -> %s", t.id, entry, exit)
	}
}

// GetAngle 获取该走向起点处的切线方向（度）
func (t *CurvedTrack) GetAngle(entry, exit entity.Endpoint) float64 {
	t.checkTraversal(entry, exit)
	if entry == entity.EndpointA {
		return t.bez.Angle(0, false)
	}
	return t.bez.Angle(1, true)
}

// GetLength 获取该走向的弧长（像素）
func (t *CurvedTrack) GetLength(entry, exit entity.Endpoint) float64 {
	t.checkTraversal(entry, exit)
	return t.bez.Length()
}

// GetPositionAtDistance 获取沿该走向行进s像素后的位置与朝向
func (t *CurvedTrack) GetPositionAtDistance(entry, exit entity.Endpoint, s float64) (geometry.Point, float64) {
	t.checkTraversal(entry, exit)
	return positionOnBezier(t.bez, entry != entity.EndpointA, s)
}

// MoveAlongPiece 原地推进列车的弧长进度与位置
func (t *CurvedTrack) MoveAlongPiece(train entity.ITrain, speed float64, entry, exit entity.Endpoint) {
	t.checkTraversal(entry, exit)
	row, col := t.GetEndpointGrid(exit)
	advanceOnBezier(t.bez, train, speed, entry != entity.EndpointA, row, col)
}

// HasReachedEndpoint 判断列车是否到达出口端点
// 说明：按弧长进度判断，到达B端即s>=总长，到达A端即s<=0
func (t *CurvedTrack) HasReachedEndpoint(train entity.ITrain, exit entity.Endpoint) bool {
	return reachedOnBezier(t.bez, train, exit == entity.EndpointA)
}

// positionOnBezier 获取曲线上距入口端s像素处的位置与朝向
// 参数：reverse-从非A端进入时为true，此时s从曲线终点量起
func positionOnBezier(b *quadBezier, reverse bool, s float64) (geometry.Point, float64) {
	canonical := s
	if reverse {
		canonical = b.Length() - s
	}
	t := b.ArcLengthToT(canonical)
	return b.Point(t), b.Angle(t, reverse)
}

// advanceOnBezier 沿曲线推进列车一步
// 说明：弧长进度统一从曲线A端量起；到达出口端点时吸附格子坐标
func advanceOnBezier(b *quadBezier, train entity.ITrain, speed float64, reverse bool, exitRow, exitCol int) {
	s := train.SOnCurve()
	if reverse {
		s = math.Max(s-speed, 0)
	} else {
		s = math.Min(s+speed, b.Length())
	}
	t := b.ArcLengthToT(s)
	p := b.Point(t)
	train.SetXY(p.X, p.Y)
	train.SetAngle(b.Angle(t, reverse))
	train.SetSOnCurve(s)
	if (reverse && s <= 0) || (!reverse && s >= b.Length()) {
		train.SetRowCol(exitRow, exitCol)
	}
}

// reachedOnBezier 判断列车弧长进度是否到达曲线端点
// 参数：toStart-出口为曲线A端时为true
func reachedOnBezier(b *quadBezier, train entity.ITrain, toStart bool) bool {
	if toStart {
		return train.SOnCurve() <= 0
	}
	return train.SOnCurve() >= b.Length()
}
