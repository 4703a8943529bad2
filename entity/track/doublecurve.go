package track

import (
	"git.fiblab.net/general/common/v2/geometry"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
)

// DoubleCurveJunctionTrack 双曲线道岔
// 功能：一进两出的道岔轨道件，端点为{A, L, R}：
// A-L与A-R均为二次贝塞尔曲线支线
// 说明：初始激活左支线L；支线状态机与占用槽的语义与普通道岔一致
type DoubleCurveJunctionTrack struct {
	baseTrack
	branchSwitcher
	occupancySlot

	left  *quadBezier // A到L的曲线
	right *quadBezier // A到R的曲线
}

func newDoubleCurveJunctionTrack(ctx entity.ITaskContext, id string, g *grid.Grid,
	start, leftControl, leftEnd, rightControl, rightEnd gridCell) *DoubleCurveJunctionTrack {
	t := &DoubleCurveJunctionTrack{
		baseTrack: newBaseTrack(id, entity.TrackTypeDoubleCurve,
			[]entity.Endpoint{entity.EndpointA, entity.EndpointL, entity.EndpointR}),
		branchSwitcher: newBranchSwitcher(ctx,
			[]entity.Endpoint{entity.EndpointL, entity.EndpointR}, entity.EndpointL),
	}
	t.setEndpoint(entity.EndpointA, g.GridToScreen(start.row, start.col), start.row, start.col)
	t.setEndpoint(entity.EndpointL, g.GridToScreen(leftEnd.row, leftEnd.col), leftEnd.row, leftEnd.col)
	t.setEndpoint(entity.EndpointR, g.GridToScreen(rightEnd.row, rightEnd.col), rightEnd.row, rightEnd.col)
	a := t.GetEndpointCoords(entity.EndpointA)
	t.left = newQuadBezier(a, g.GridToScreen(leftControl.row, leftControl.col), t.GetEndpointCoords(entity.EndpointL))
	t.right = newQuadBezier(a, g.GridToScreen(rightControl.row, rightControl.col), t.GetEndpointCoords(entity.EndpointR))
	return t
}

// branchFor 获取(entry, exit)走向所需的支线
func (t *DoubleCurveJunctionTrack) branchFor(entry, exit entity.Endpoint) entity.Endpoint {
	switch {
	case endpointPair(entry, exit, entity.EndpointA, entity.EndpointL):
		return entity.EndpointL
	case endpointPair(entry, exit, entity.EndpointA, entity.EndpointR):
		return entity.EndpointR
	default:
		log.Panicf("track %s: invalid traversal %s -> %s", t.id, entry, exit)
		return ""
	}
}

// bezierFor 获取支线对应的曲线
func (t *DoubleCurveJunctionTrack) bezierFor(branch entity.Endpoint) *quadBezier {
	if branch == entity.EndpointL {
		return t.left
	}
	return t.right
}

// CanProceed 判断能否按(entry, exit)通过道岔
func (t *DoubleCurveJunctionTrack) CanProceed(entry, exit entity.Endpoint) bool {
	needed := t.branchFor(entry, exit)
	if t.IsSwitching() {
		return false
	}
	if t.ActiveBranch() == needed {
		return true
	}
	t.RequestBranch(needed)
	return false
}

// GetAngle 获取该走向起点处的切线方向（度）
func (t *DoubleCurveJunctionTrack) GetAngle(entry, exit entity.Endpoint) float64 {
	b := t.bezierFor(t.branchFor(entry, exit))
	if entry == entity.EndpointA {
		return b.Angle(0, false)
	}
	return b.Angle(1, true)
}

// GetLength 获取该走向的弧长（像素）
func (t *DoubleCurveJunctionTrack) GetLength(entry, exit entity.Endpoint) float64 {
	return t.bezierFor(t.branchFor(entry, exit)).Length()
}

// GetPositionAtDistance 获取沿该走向行进s像素后的位置与朝向
func (t *DoubleCurveJunctionTrack) GetPositionAtDistance(entry, exit entity.Endpoint, s float64) (geometry.Point, float64) {
	return positionOnBezier(t.bezierFor(t.branchFor(entry, exit)), entry != entity.EndpointA, s)
}

// MoveAlongPiece 原地推进列车的弧长进度与位置
func (t *DoubleCurveJunctionTrack) MoveAlongPiece(train entity.ITrain, speed float64, entry, exit entity.Endpoint) {
	row, col := t.GetEndpointGrid(exit)
	advanceOnBezier(t.bezierFor(t.branchFor(entry, exit)), train, speed, entry != entity.EndpointA, row, col)
}

// HasReachedEndpoint 判断列车是否到达出口端点
func (t *DoubleCurveJunctionTrack) HasReachedEndpoint(train entity.ITrain, exit entity.Endpoint) bool {
	b := t.bezierFor(t.branchFor(train.EntryEndpoint(), exit))
	return reachedOnBezier(b, train, exit == entity.EndpointA)
}

// update 推进道岔切换状态机
func (t *DoubleCurveJunctionTrack) update() {
	t.branchSwitcher.update()
}
