// 列车，消费路线并与共享的区段/道岔资源交互的主动实体
package train

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/container"
)

var log = logrus.WithField("module", "train")

// Train 列车
// 功能：按路线逐步通过轨道网络的主动实体，驱动逐步推进的状态机：
// 申请区段/道岔资源、沿轨道件几何推进、在车站定时停靠
// 说明：除位置与朝向由轨道件原地修改外，其余状态只归列车自身修改
type Train struct {
	container.IncrementalItemBase

	ctx entity.ITaskContext

	id     int32
	colour string // 展示用途的透传元数据

	// 位置状态
	x, y     float64 // 像素坐标
	angle    float64 // 朝向（度）
	row, col int     // 最后对齐的格子坐标
	sOnCurve float64 // 当前轨道件上的弧长进度（从A端量起）

	// 行程状态
	route        *Route
	currentPiece entity.ITrackPiece
	entry, exit  entity.Endpoint
	speed        float64 // 当前速度（像素/步），等待时为0
	maxSpeed     float64 // 配置速度（像素/步）

	state        entity.TrainState
	stoppedUntil float64 // 停站结束时间（模拟毫秒）
	dwellServed  bool    // 当前轨道件上是否已完成停站，防止重复计时

	// 资源状态
	started        bool // 是否已成功获得第一个资源并投入运行
	currentSegment entity.ISegment

	carriages []*Carriage
}

func newTrain(ctx entity.ITaskContext, id int32, colour string, row, col int, speed float64, carriages, carriageCapacity int, route *Route) *Train {
	t := &Train{
		ctx:      ctx,
		id:       id,
		colour:   colour,
		row:      row,
		col:      col,
		speed:    speed,
		maxSpeed: speed,
		route:    route,
		state:    entity.TrainStateTravelling,
	}
	p := ctx.TrackManager().Grid().GridToScreen(row, col)
	t.x, t.y = p.X, p.Y
	for i := 0; i < carriages; i++ {
		t.carriages = append(t.carriages, newCarriage(carriageCapacity))
	}
	return t
}

func (t *Train) String() string {
	return fmt.Sprintf("Train %d", t.id)
}

// 获取列车ID
func (t *Train) ID() int32 {
	return t.id
}

// 获取列车颜色
func (t *Train) Colour() string {
	return t.colour
}

// 获取列车像素X坐标
func (t *Train) X() float64 {
	return t.x
}

// 获取列车像素Y坐标
func (t *Train) Y() float64 {
	return t.y
}

// 获取列车朝向（度）
func (t *Train) Angle() float64 {
	return t.angle
}

// 获取列车最后对齐的格子坐标
func (t *Train) RowCol() (int, int) {
	return t.row, t.col
}

// 获取列车在当前轨道件上的弧长进度
func (t *Train) SOnCurve() float64 {
	return t.sOnCurve
}

// 获取当前轨道件的进入端点
func (t *Train) EntryEndpoint() entity.Endpoint {
	return t.entry
}

// 获取当前轨道件的离开端点
func (t *Train) ExitEndpoint() entity.Endpoint {
	return t.exit
}

// 获取列车运行状态
func (t *Train) State() entity.TrainState {
	return t.state
}

// 获取列车速度（像素/步）
func (t *Train) Speed() float64 {
	return t.speed
}

// 获取列车路线
func (t *Train) Route() *Route {
	return t.route
}

// 获取列车当前占用的区段，无占用时为nil
func (t *Train) CurrentSegment() entity.ISegment {
	return t.currentSegment
}

// 获取列车车厢列表
func (t *Train) Carriages() []*Carriage {
	return t.carriages
}

// 设置列车像素坐标
func (t *Train) SetXY(x, y float64) {
	t.x, t.y = x, y
}

// 设置列车朝向（度）
func (t *Train) SetAngle(angle float64) {
	t.angle = angle
}

// 设置列车格子坐标
func (t *Train) SetRowCol(row, col int) {
	t.row, t.col = row, col
}

// 设置列车弧长进度
func (t *Train) SetSOnCurve(s float64) {
	t.sOnCurve = s
}

// update 列车每步的状态机推进
// 算法说明（按顺序短路）：
// 1. 未投入运行：重试获取第一步资源
// 2. 停站中且未到时：原地等待
// 3. 等待道岔中：重测能否通过，不能则继续等待
// 4. 当前在道岔上且支线不可用：进入等待道岔状态
// 5. 沿当前轨道件推进一步
// 6. 到达出口端点：停站触发/资源交接/路线前进/终态判定
// 说明：所有资源竞争都表现为本步提前返回、下一步重试，永不阻塞
func (t *Train) update() {
	if !t.started {
		t.tryStart()
		return
	}
	switch t.state {
	case entity.TrainStateFinished:
		return
	case entity.TrainStateStoppedTimed:
		if t.ctx.Clock().T < t.stoppedUntil {
			return
		}
		t.state = entity.TrainStateTravelling
		t.speed = t.maxSpeed
	case entity.TrainStateWaitingForJunction:
		j := t.currentPiece.(entity.IJunctionPiece)
		if !j.CanProceed(t.entry, t.exit) {
			return
		}
		t.state = entity.TrainStateTravelling
		t.speed = t.maxSpeed
	}
	if j, ok := t.currentPiece.(entity.IJunctionPiece); ok {
		if !j.CanProceed(t.entry, t.exit) {
			t.state = entity.TrainStateWaitingForJunction
			t.speed = 0
			log.Debugf("%v waits for %v at %s", t, j, t.ctx.Clock())
			return
		}
	}

	t.currentPiece.MoveAlongPiece(t, t.speed, t.entry, t.exit)
	if !t.currentPiece.HasReachedEndpoint(t, t.exit) {
		return
	}

	// 到达出口端点
	step := t.route.Current()
	if station, ok := t.currentPiece.(entity.IStation); ok && step.Stop && !t.dwellServed {
		t.dwellServed = true
		t.state = entity.TrainStateStoppedTimed
		t.speed = 0
		t.stoppedUntil = t.ctx.Clock().T + t.ctx.RuntimeConfig().C.StationDwell
		t.alightAndBoard(station)
		return
	}
	t.tryAdvance()
}

// tryStart 重试获取路线第一步的资源并投入运行
// 说明：第一步资源被占用时列车留在出生格子上，下一步重试
func (t *Train) tryStart() {
	step := t.route.Current()
	if step == nil {
		t.started = true
		t.finish()
		return
	}
	if j, ok := step.Piece.(entity.IJunctionPiece); ok {
		exitSegment := t.segmentOfStep(1)
		if !j.CanReserveJunction(t, exitSegment) {
			return
		}
		t.currentSegment = exitSegment
	} else if seg := step.Piece.Segment(); seg != nil {
		if !seg.RequestEntry(t) {
			return
		}
		t.currentSegment = seg
	}
	t.started = true
	t.state = entity.TrainStateTravelling
	t.speed = t.maxSpeed
	t.enterTrackPiece(step.Piece, step.Entry, step.Exit)
	log.Debugf("%v enters service on %v at %s", t, step.Piece, t.ctx.Clock())
}

// tryAdvance 尝试越过出口端点进入路线的下一步
// 算法说明：
// 1. 无下一步：转入终态
// 2. 下一步是道岔：对道岔占用槽+道岔之后的区段做原子预约，
//    失败则原地保持，下一步重试
// 3. 下一步是普通轨道件：申请其区段，失败则原地保持
// 4. 成功后释放上一个区段与道岔占用槽，前进路线游标并切入新轨道件
func (t *Train) tryAdvance() {
	next := t.route.Peek(1)
	if next == nil {
		t.finish()
		return
	}
	var newSegment entity.ISegment
	if j, ok := next.Piece.(entity.IJunctionPiece); ok {
		exitSegment := t.segmentOfStep(2)
		if !j.CanReserveJunction(t, exitSegment) {
			return
		}
		newSegment = exitSegment
	} else {
		seg := next.Piece.Segment()
		if seg != nil && !seg.RequestEntry(t) {
			return
		}
		newSegment = seg
	}
	if t.currentSegment != nil && t.currentSegment != newSegment {
		t.currentSegment.Leave(t)
	}
	if prev, ok := t.currentPiece.(entity.IJunctionPiece); ok {
		prev.ReleaseJunction(t)
	}
	t.currentSegment = newSegment
	t.route.Advance()
	t.enterTrackPiece(next.Piece, next.Entry, next.Exit)
}

// segmentOfStep 获取当前步之后第offset步所在的区段
// 说明：越界或该轨道件无区段时返回nil，此时道岔预约只需道岔占用槽
func (t *Train) segmentOfStep(offset int) entity.ISegment {
	step := t.route.Peek(offset)
	if step == nil {
		return nil
	}
	return step.Piece.Segment()
}

// enterTrackPiece 切入新轨道件
// 功能：把列车位置吸附到进入端点，重置弧长进度与朝向
// 说明：弧长进度统一从A端量起，从非A端进入时初始化为该走向总长
func (t *Train) enterTrackPiece(piece entity.ITrackPiece, entry, exit entity.Endpoint) {
	t.currentPiece = piece
	t.entry, t.exit = entry, exit
	p := piece.GetEndpointCoords(entry)
	t.x, t.y = p.X, p.Y
	t.row, t.col = piece.GetEndpointGrid(entry)
	if entry == entity.EndpointA {
		t.sOnCurve = 0
	} else {
		t.sOnCurve = piece.GetLength(entry, exit)
	}
	t.angle = piece.GetAngle(entry, exit)
	t.dwellServed = false
}

// finish 转入终态
// 说明：列车留在原地，占用的区段不释放（列车物理上仍在轨道上）
func (t *Train) finish() {
	t.state = entity.TrainStateFinished
	t.speed = 0
	log.Infof("%v finished its route at %s", t, t.ctx.Clock())
}

// alightAndBoard 停站时的乘客下车与上车
// 功能：先放下目的地为本站的乘客，再按车厢剩余容量接上等待乘客
// 说明：同行的一组人不拆开，整组进同一节车厢
func (t *Train) alightAndBoard(station entity.IStation) {
	if len(t.carriages) == 0 {
		return
	}
	alighted, boarded := 0, 0
	for _, c := range t.carriages {
		alighted += c.Unload(station.Name())
	}
	for _, c := range t.carriages {
		for _, p := range station.TakeWaiting(c.FreeSpace()) {
			p.Status = entity.PassengerStatusOnboard
			c.Load(p)
			boarded += p.GroupSize
		}
	}
	if alighted > 0 || boarded > 0 {
		log.Debugf("%v at station %s: %d alighted, %d boarded", t, station.Name(), alighted, boarded)
	}
}
