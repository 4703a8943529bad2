package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// TrackType 轨道件类型
type TrackType string

const (
	TrackTypeStraight    TrackType = "straight"              // 直线轨道
	TrackTypeCurve       TrackType = "curve"                 // 曲线轨道（二次贝塞尔）
	TrackTypeJunction    TrackType = "junction"              // 道岔（直线主线+曲线支线）
	TrackTypeDoubleCurve TrackType = "double_curve_junction" // 双曲线道岔（左右两条支线）
	TrackTypeStation     TrackType = "station"               // 车站（带站台的直线轨道）
)

// Endpoint 轨道件端点标签
// 说明：每种轨道件声明自己的合法端点集合（{A,B}、{A,S,C}、{A,L,R}），
// 使用未声明的标签属于编程错误，在构造或查询时直接panic
type Endpoint string

const (
	EndpointA Endpoint = "A" // 起始端点（所有轨道件共有）
	EndpointB Endpoint = "B" // 直线轨道终点
	EndpointS Endpoint = "S" // 道岔直线支线终点
	EndpointC Endpoint = "C" // 道岔曲线支线终点
	EndpointL Endpoint = "L" // 双曲线道岔左支线终点
	EndpointR Endpoint = "R" // 双曲线道岔右支线终点
)

// Connection 轨道件端点的连接关系
type Connection struct {
	Piece    ITrackPiece // 连接到的轨道件
	Endpoint Endpoint    // 对方轨道件上的对应端点
}

// TrainState 列车运行状态
type TrainState int32

const (
	TrainStateTravelling        TrainState = iota // 正常行驶
	TrainStateWaitingForJunction                  // 等待道岔（切换中或支线未对准）
	TrainStateStoppedTimed                        // 定时停靠（车站停站）
	TrainStateFinished                            // 路线走完
)

func (s TrainState) String() string {
	switch s {
	case TrainStateTravelling:
		return "travelling"
	case TrainStateWaitingForJunction:
		return "waiting_for_junction"
	case TrainStateStoppedTimed:
		return "stopped_timed"
	case TrainStateFinished:
		return "finished"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// PassengerStatus 乘客状态
type PassengerStatus int32

const (
	PassengerStatusWaiting PassengerStatus = iota // 在车站等待
	PassengerStatusOnboard                        // 在车上
	PassengerStatusArrived                        // 已到达目的车站
)

// Passenger 乘客
// 功能：车站生成、列车运送的乘客数据，只做简单的计数簿记
type Passenger struct {
	ID          int32           // 乘客ID
	Origin      string          // 出发车站名
	Destination string          // 目的车站名
	GroupSize   int             // 同行人数
	Status      PassengerStatus // 当前状态
}

func (p *Passenger) String() string {
	return fmt.Sprintf("Passenger %d (%s -> %s)", p.ID, p.Origin, p.Destination)
}

// entity/train/train.go的依赖倒置
// 说明：轨道件通过本接口原地修改列车的位置与朝向，列车的其余状态只归其自身修改
type ITrain interface {
	ID() int32      // 获取列车ID
	String() string // 打印

	X() float64                // 获取列车像素X坐标
	Y() float64                // 获取列车像素Y坐标
	Angle() float64            // 获取列车朝向（度）
	RowCol() (int, int)        // 获取列车最后对齐的格子坐标
	SOnCurve() float64         // 获取列车在当前轨道件上的弧长进度
	EntryEndpoint() Endpoint   // 获取当前轨道件的进入端点
	ExitEndpoint() Endpoint    // 获取当前轨道件的离开端点
	State() TrainState         // 获取列车运行状态
	Speed() float64            // 获取列车速度（像素/步）

	SetXY(x, y float64)      // 设置列车像素坐标
	SetAngle(angle float64)  // 设置列车朝向（度）
	SetRowCol(row, col int)  // 设置列车格子坐标
	SetSOnCurve(s float64)   // 设置列车弧长进度
}

// entity/segment/segment.go的依赖倒置
type ISegment interface {
	String() string

	Name() string              // 获取区段名
	OccupiedBy() ITrain        // 获取当前占用者，空闲时为nil
	RequestEntry(t ITrain) bool // 申请进入，成功返回true；同一列车重复申请幂等成功
	Leave(t ITrain)            // 离开，仅当前占用者可以释放
}

// entity/track各轨道件的依赖倒置
// 说明：所有轨道件变体共享的端点抽象移动契约
type ITrackPiece interface {
	String() string

	ID() string           // 获取轨道件ID
	Type() TrackType      // 获取轨道件类型
	Endpoints() []Endpoint // 获取合法端点集合

	GetEndpointCoords(ep Endpoint) geometry.Point // 获取端点像素坐标
	GetEndpointGrid(ep Endpoint) (row, col int)   // 获取端点格子坐标
	GetAngle(entry, exit Endpoint) float64        // 获取该走向起点处的行进方向（度）
	GetLength(entry, exit Endpoint) float64       // 获取该走向的长度（像素）
	// 获取沿该走向行进s像素后的位置与朝向
	GetPositionAtDistance(entry, exit Endpoint, s float64) (pos geometry.Point, angle float64)
	// 原地推进列车位置/进度
	MoveAlongPiece(train ITrain, speed float64, entry, exit Endpoint)
	// 判断列车是否到达出口端点
	HasReachedEndpoint(train ITrain, exit Endpoint) bool

	Connection(ep Endpoint) (Connection, bool)         // 获取端点连接关系
	SetConnectionWhenInit(ep Endpoint, conn Connection) // 初始化阶段设置端点连接关系
	Segment() ISegment                                 // 获取所属区段，无区段时为nil
	SetSegmentWhenInit(seg ISegment)                   // 初始化阶段设置所属区段
}

// 道岔类轨道件（junction/double_curve_junction）的依赖倒置
// 说明：在ITrackPiece之上增加支线状态机与占用槽；
// 占用槽独立于支线选择，仅用于道岔+出口区段的原子预约
type IJunctionPiece interface {
	ITrackPiece

	ActiveBranch() Endpoint // 获取当前激活支线
	IsSwitching() bool      // 是否正在切换支线
	RequestBranch(b Endpoint) // 请求切换到支线b（切换中或已激活时为空操作）
	// 判断能否按(entry, exit)通过；切换中恒为false；
	// 支线未对准时触发RequestBranch并返回false，调用方下一步重试
	CanProceed(entry, exit Endpoint) bool

	OccupiedBy() ITrain // 获取道岔占用槽的占用者
	// 原子预约道岔占用槽与道岔之后的出口区段：
	// 两者都空闲时同时锁定并返回true，否则都不锁定并返回false
	CanReserveJunction(train ITrain, exitSegment ISegment) bool
	ReleaseJunction(train ITrain) // 释放道岔占用槽，仅持有者可以释放
}

// entity/track/station.go的依赖倒置
type IStation interface {
	ITrackPiece

	Name() string                       // 获取车站名
	WaitingCount() int                  // 获取等待乘客数（含同行人数）
	WaitingPassengers() []*Passenger    // 获取等待乘客列表
	AddWaitingPassenger(p *Passenger)   // 添加等待乘客
	TakeWaiting(max int) []*Passenger   // 取走至多max名等待乘客（按到达顺序）
}
