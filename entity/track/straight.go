package track

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
)

// 直线移动到达判定的距离阈值（像素）
// 说明：最后一步会把坐标吸附到端点上，阈值只用来吸收浮点误差
const snapEpsilon = 1e-6

// StraightTrack 直线轨道
// 功能：连接两个格子中心的直线轨道件，端点为{A, B}
type StraightTrack struct {
	baseTrack

	length float64 // A到B的长度（像素）
}

func newStraightTrack(id string, typ entity.TrackType, g *grid.Grid, start, end gridCell) *StraightTrack {
	t := &StraightTrack{
		baseTrack: newBaseTrack(id, typ, []entity.Endpoint{entity.EndpointA, entity.EndpointB}),
	}
	t.setEndpoint(entity.EndpointA, g.GridToScreen(start.row, start.col), start.row, start.col)
	t.setEndpoint(entity.EndpointB, g.GridToScreen(end.row, end.col), end.row, end.col)
	a, b := t.GetEndpointCoords(entity.EndpointA), t.GetEndpointCoords(entity.EndpointB)
	t.length = math.Hypot(b.X-a.X, b.Y-a.Y)
	return t
}

func (t *StraightTrack) checkTraversal(entry, exit entity.Endpoint) {
	if !endpointPair(entry, exit, entity.EndpointA, entity.EndpointB) {
		log.Panicf("track %s: invalid traversal %s -> %s", t.id, entry, exit)
	}
}

// GetAngle 获取该走向的行进方向（度）
func (t *StraightTrack) GetAngle(entry, exit entity.Endpoint) float64 {
	t.checkTraversal(entry, exit)
	return lineAngle(t.GetEndpointCoords(entry), t.GetEndpointCoords(exit))
}

// GetLength 获取该走向的长度（像素）
func (t *StraightTrack) GetLength(entry, exit entity.Endpoint) float64 {
	t.checkTraversal(entry, exit)
	return t.length
}

// GetPositionAtDistance 获取沿该走向行进s像素后的位置与朝向
// 说明：s超出[0, length]时截断到端点
func (t *StraightTrack) GetPositionAtDistance(entry, exit entity.Endpoint, s float64) (geometry.Point, float64) {
	t.checkTraversal(entry, exit)
	return positionOnLine(t.GetEndpointCoords(entry), t.GetEndpointCoords(exit), t.length, s)
}

// MoveAlongPiece 原地推进列车位置
// 说明：剩余距离不足一步时直接吸附到出口端点并对齐格子坐标
func (t *StraightTrack) MoveAlongPiece(train entity.ITrain, speed float64, entry, exit entity.Endpoint) {
	t.checkTraversal(entry, exit)
	target := t.GetEndpointCoords(exit)
	row, col := t.GetEndpointGrid(exit)
	advanceOnLine(train, speed, target, row, col)
}

// HasReachedEndpoint 判断列车是否到达出口端点
func (t *StraightTrack) HasReachedEndpoint(train entity.ITrain, exit entity.Endpoint) bool {
	target := t.GetEndpointCoords(exit)
	return reachedPoint(train, target)
}

// lineAngle 获取from指向to的方向角（度）
func lineAngle(from, to geometry.Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
}

// positionOnLine 获取线段上距entry端s像素处的位置与朝向
func positionOnLine(from, to geometry.Point, length, s float64) (geometry.Point, float64) {
	angle := lineAngle(from, to)
	if length <= 0 {
		return from, angle
	}
	k := s / length
	if k < 0 {
		k = 0
	} else if k > 1 {
		k = 1
	}
	return geometry.Blend(from, to, k), angle
}

// advanceOnLine 沿直线朝目标点推进列车一步
func advanceOnLine(train entity.ITrain, speed float64, target geometry.Point, targetRow, targetCol int) {
	dx := target.X - train.X()
	dy := target.Y - train.Y()
	dist := math.Hypot(dx, dy)
	if dist > speed {
		train.SetXY(train.X()+dx/dist*speed, train.Y()+dy/dist*speed)
		return
	}
	train.SetXY(target.X, target.Y)
	train.SetRowCol(targetRow, targetCol)
}

// reachedPoint 判断列车是否已吸附到目标点
func reachedPoint(train entity.ITrain, target geometry.Point) bool {
	return math.Abs(train.X()-target.X) < snapEpsilon && math.Abs(train.Y()-target.Y) < snapEpsilon
}
