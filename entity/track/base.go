package track

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"

	"github.com/railgrid/railsim/entity"
)

// gridCell 格子坐标
type gridCell struct {
	row, col int
}

// baseTrack 所有轨道件共有的端点与连接关系数据
// 功能：维护端点标签到像素/格子坐标的映射、端点连接关系与区段归属
// 说明：几何在构造时一次算好，此后不再变化；使用未声明的端点标签
// 属于编程错误，直接panic
type baseTrack struct {
	id        string
	typ       entity.TrackType
	endpoints []entity.Endpoint

	endpointCoords map[entity.Endpoint]geometry.Point
	endpointGrids  map[entity.Endpoint]gridCell

	connections map[entity.Endpoint]entity.Connection
	segment     entity.ISegment
}

func newBaseTrack(id string, typ entity.TrackType, endpoints []entity.Endpoint) baseTrack {
	return baseTrack{
		id:             id,
		typ:            typ,
		endpoints:      endpoints,
		endpointCoords: make(map[entity.Endpoint]geometry.Point),
		endpointGrids:  make(map[entity.Endpoint]gridCell),
		connections:    make(map[entity.Endpoint]entity.Connection),
	}
}

func (b *baseTrack) String() string {
	return fmt.Sprintf("%s %s", b.typ, b.id)
}

// 获取轨道件ID
func (b *baseTrack) ID() string {
	return b.id
}

// 获取轨道件类型
func (b *baseTrack) Type() entity.TrackType {
	return b.typ
}

// 获取合法端点集合
func (b *baseTrack) Endpoints() []entity.Endpoint {
	return b.endpoints
}

// GetEndpointCoords 获取端点像素坐标
// 说明：未声明的端点标签属于编程错误，直接panic
func (b *baseTrack) GetEndpointCoords(ep entity.Endpoint) geometry.Point {
	p, ok := b.endpointCoords[ep]
	if !ok {
		log.Panicf("track %s: invalid endpoint %s", b.id, ep)
	}
	return p
}

// GetEndpointGrid 获取端点格子坐标
func (b *baseTrack) GetEndpointGrid(ep entity.Endpoint) (row, col int) {
	c, ok := b.endpointGrids[ep]
	if !ok {
		log.Panicf("track %s: invalid endpoint %s", b.id, ep)
	}
	return c.row, c.col
}

// 获取端点连接关系
func (b *baseTrack) Connection(ep entity.Endpoint) (entity.Connection, bool) {
	conn, ok := b.connections[ep]
	return conn, ok
}

// SetConnectionWhenInit 初始化阶段设置端点连接关系
func (b *baseTrack) SetConnectionWhenInit(ep entity.Endpoint, conn entity.Connection) {
	if _, ok := b.endpointCoords[ep]; !ok {
		log.Panicf("track %s: connection on invalid endpoint %s", b.id, ep)
	}
	b.connections[ep] = conn
}

// 获取所属区段，无区段时为nil
func (b *baseTrack) Segment() entity.ISegment {
	return b.segment
}

// SetSegmentWhenInit 初始化阶段设置所属区段
func (b *baseTrack) SetSegmentWhenInit(seg entity.ISegment) {
	b.segment = seg
}

// setEndpoint 初始化阶段登记端点的像素与格子坐标
func (b *baseTrack) setEndpoint(ep entity.Endpoint, coords geometry.Point, row, col int) {
	b.endpointCoords[ep] = coords
	b.endpointGrids[ep] = gridCell{row: row, col: col}
}

// endpointPair 判断(entry, exit)是否恰为无序对{a, b}
func endpointPair(entry, exit, a, b entity.Endpoint) bool {
	return (entry == a && exit == b) || (entry == b && exit == a)
}
