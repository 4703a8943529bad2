package track

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
)

// branchSwitcher 道岔支线切换状态机
// 功能：维护道岔的激活支线与切换过程，切换耗时以仿真时钟计
// 说明：状态为Idle/Switching两态；切换中不接受新的切换请求，
// 到期后在update()中落到目标支线
type branchSwitcher struct {
	ctx      entity.ITaskContext
	branches []entity.Endpoint // 合法支线集合

	active    entity.Endpoint // 当前激活支线
	switching bool            // 是否正在切换
	pending   entity.Endpoint // 切换目标支线
	deadline  float64         // 切换完成时间（模拟毫秒）
}

func newBranchSwitcher(ctx entity.ITaskContext, branches []entity.Endpoint, initial entity.Endpoint) branchSwitcher {
	return branchSwitcher{ctx: ctx, branches: branches, active: initial}
}

// 获取当前激活支线
func (s *branchSwitcher) ActiveBranch() entity.Endpoint {
	return s.active
}

// 是否正在切换支线
func (s *branchSwitcher) IsSwitching() bool {
	return s.switching
}

// RequestBranch 请求切换到支线b
// 说明：切换中或b已激活时为空操作；非法支线属于编程错误，直接panic
func (s *branchSwitcher) RequestBranch(b entity.Endpoint) {
	if !lo.Contains(s.branches, b) {
		log.Panicf("branch switcher: invalid branch %s", b)
	}
	if s.switching || s.active == b {
		return
	}
	s.switching = true
	s.pending = b
	s.deadline = s.ctx.Clock().T + s.ctx.RuntimeConfig().C.SwitchDelay
}

// update 推进切换状态机，到期后落到目标支线
func (s *branchSwitcher) update() {
	if s.switching && s.ctx.Clock().T >= s.deadline {
		s.active = s.pending
		s.switching = false
	}
}

// occupancySlot 道岔占用槽
// 功能：道岔本体的独占资源，与支线选择无关；配合出口区段做原子预约
type occupancySlot struct {
	occupiedBy entity.ITrain
}

// 获取道岔占用槽的占用者
func (o *occupancySlot) OccupiedBy() entity.ITrain {
	return o.occupiedBy
}

// CanReserveJunction 原子预约道岔占用槽与出口区段
// 功能：检查道岔槽与出口区段（可为nil）是否都可用，都可用时
// 同时锁定并返回true；任一不可用时两者都不锁定并返回false
// 说明：同一列车重复预约幂等成功
func (o *occupancySlot) CanReserveJunction(train entity.ITrain, exitSegment entity.ISegment) bool {
	if o.occupiedBy != nil && o.occupiedBy != train {
		return false
	}
	if exitSegment != nil {
		if other := exitSegment.OccupiedBy(); other != nil && other != train {
			return false
		}
		exitSegment.RequestEntry(train)
	}
	o.occupiedBy = train
	return true
}

// ReleaseJunction 释放道岔占用槽
// 说明：仅持有者可以释放，其余调用为空操作
func (o *occupancySlot) ReleaseJunction(train entity.ITrain) {
	if o.occupiedBy == train {
		o.occupiedBy = nil
	}
}

// JunctionTrack 道岔
// 功能：一进两出的道岔轨道件，端点为{A, S, C}：
// A-S为直线主线，A-C为曲线支线（二次贝塞尔）
// 说明：初始激活直线支线S
type JunctionTrack struct {
	baseTrack
	branchSwitcher
	occupancySlot

	straightLen float64     // A到S的长度（像素）
	bez         *quadBezier // A到C的曲线
}

func newJunctionTrack(ctx entity.ITaskContext, id string, g *grid.Grid, start, straightEnd, curveControl, curveEnd gridCell) *JunctionTrack {
	t := &JunctionTrack{
		baseTrack: newBaseTrack(id, entity.TrackTypeJunction,
			[]entity.Endpoint{entity.EndpointA, entity.EndpointS, entity.EndpointC}),
		branchSwitcher: newBranchSwitcher(ctx,
			[]entity.Endpoint{entity.EndpointS, entity.EndpointC}, entity.EndpointS),
	}
	t.setEndpoint(entity.EndpointA, g.GridToScreen(start.row, start.col), start.row, start.col)
	t.setEndpoint(entity.EndpointS, g.GridToScreen(straightEnd.row, straightEnd.col), straightEnd.row, straightEnd.col)
	t.setEndpoint(entity.EndpointC, g.GridToScreen(curveEnd.row, curveEnd.col), curveEnd.row, curveEnd.col)
	a := t.GetEndpointCoords(entity.EndpointA)
	sp := t.GetEndpointCoords(entity.EndpointS)
	t.straightLen = math.Hypot(sp.X-a.X, sp.Y-a.Y)
	t.bez = newQuadBezier(a, g.GridToScreen(curveControl.row, curveControl.col), t.GetEndpointCoords(entity.EndpointC))
	return t
}

// branchFor 获取(entry, exit)走向所需的支线
// 说明：非法走向属于编程错误，直接panic
func (t *JunctionTrack) branchFor(entry, exit entity.Endpoint) entity.Endpoint {
	switch {
	case endpointPair(entry, exit, entity.EndpointA, entity.EndpointS):
		return entity.EndpointS
	case endpointPair(entry, exit, entity.EndpointA, entity.EndpointC):
		return entity.EndpointC
	default:
		log.Panicf("track %s: invalid traversal %s -> %s", t.id, entry, exit)
		return ""
	}
}

// CanProceed 判断能否按(entry, exit)通过道岔
// 说明：切换中恒为false；所需支线未激活时触发切换请求并返回false，
// 调用方在后续步重试
func (t *JunctionTrack) CanProceed(entry, exit entity.Endpoint) bool {
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

// GetAngle 获取该走向起点处的行进方向（度）
func (t *JunctionTrack) GetAngle(entry, exit entity.Endpoint) float64 {
	if t.branchFor(entry, exit) == entity.EndpointS {
		return lineAngle(t.GetEndpointCoords(entry), t.GetEndpointCoords(exit))
	}
	if entry == entity.EndpointA {
		return t.bez.Angle(0, false)
	}
	return t.bez.Angle(1, true)
}

// GetLength 获取该走向的长度（像素）
func (t *JunctionTrack) GetLength(entry, exit entity.Endpoint) float64 {
	if t.branchFor(entry, exit) == entity.EndpointS {
		return t.straightLen
	}
	return t.bez.Length()
}

// GetPositionAtDistance 获取沿该走向行进s像素后的位置与朝向
func (t *JunctionTrack) GetPositionAtDistance(entry, exit entity.Endpoint, s float64) (geometry.Point, float64) {
	if t.branchFor(entry, exit) == entity.EndpointS {
		return positionOnLine(t.GetEndpointCoords(entry), t.GetEndpointCoords(exit), t.straightLen, s)
	}
	return positionOnBezier(t.bez, entry != entity.EndpointA, s)
}

// MoveAlongPiece 原地推进列车位置/进度
// 说明：移动只看(entry, exit)走向，不检查支线状态；支线检查由
// CanProceed在进入前完成
func (t *JunctionTrack) MoveAlongPiece(train entity.ITrain, speed float64, entry, exit entity.Endpoint) {
	row, col := t.GetEndpointGrid(exit)
	if t.branchFor(entry, exit) == entity.EndpointS {
		advanceOnLine(train, speed, t.GetEndpointCoords(exit), row, col)
		return
	}
	advanceOnBezier(t.bez, train, speed, entry != entity.EndpointA, row, col)
}

// HasReachedEndpoint 判断列车是否到达出口端点
func (t *JunctionTrack) HasReachedEndpoint(train entity.ITrain, exit entity.Endpoint) bool {
	if t.branchFor(train.EntryEndpoint(), exit) == entity.EndpointS {
		return reachedPoint(train, t.GetEndpointCoords(exit))
	}
	return reachedOnBezier(t.bez, train, exit == entity.EndpointA)
}

// update 推进道岔切换状态机
func (t *JunctionTrack) update() {
	t.branchSwitcher.update()
}
