package track

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
	"github.com/railgrid/railsim/utils/input"
)

// iUpdatable 需要每步推进内部状态的轨道件（道岔、车站）
type iUpdatable interface {
	update()
}

// TrackManager 轨道件管理器
// 功能：管理所有轨道件实体，提供创建、查找、初始化、每步更新等功能
type TrackManager struct {
	ctx entity.ITaskContext

	grid   *grid.Grid
	data   map[string]entity.ITrackPiece
	pieces []entity.ITrackPiece

	junctions  []entity.IJunctionPiece
	stations   []entity.IStation
	updatables []iUpdatable
}

// NewManager 创建轨道件管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的轨道件管理器实例
func NewManager(ctx entity.ITaskContext) *TrackManager {
	return &TrackManager{
		ctx:  ctx,
		data: make(map[string]entity.ITrackPiece),
	}
}

// Init 初始化所有轨道件
// 功能：根据布局数据构建网格与全部轨道件，并完成连接关系与区段
// 归属的接线
// 参数：layout-轨道布局数据，segmentManager-区段管理器
// 算法说明：
// 1. 构建网格并校验所有几何坐标都在网格范围内
// 2. 按类型构造轨道件，未知类型直接panic
// 3. 按布局中的声明接好端点连接关系（两侧端点都必须合法）
// 4. 收集区段名注册到区段管理器，并把区段指针写回轨道件
// 5. 给每个车站下发可作为目的地的其他车站名
func (m *TrackManager) Init(layout *input.TrackLayout, segmentManager entity.ISegmentManager) {
	gs := layout.Grid
	if gs.Rows <= 0 || gs.Cols <= 0 || gs.CellSize <= 0 {
		log.Panicf("layout: invalid grid %dx%d cell %f", gs.Rows, gs.Cols, gs.CellSize)
	}
	m.grid = grid.New(gs.Rows, gs.Cols, gs.CellSize)

	for _, spec := range layout.Tracks {
		var piece entity.ITrackPiece
		switch entity.TrackType(spec.Type) {
		case entity.TrackTypeStraight:
			piece = newStraightTrack(spec.ID, entity.TrackTypeStraight, m.grid,
				m.mustCell(spec.ID, "start", spec.Start),
				m.mustCell(spec.ID, "end", spec.End))
		case entity.TrackTypeCurve:
			piece = newCurvedTrack(spec.ID, m.grid,
				m.mustCell(spec.ID, "start", spec.Start),
				m.mustCell(spec.ID, "control", spec.Control),
				m.mustCell(spec.ID, "end", spec.End))
		case entity.TrackTypeJunction:
			j := newJunctionTrack(m.ctx, spec.ID, m.grid,
				m.mustCell(spec.ID, "start", spec.Start),
				m.mustCell(spec.ID, "straight_end", spec.StraightEnd),
				m.mustCell(spec.ID, "curve_control", spec.CurveControl),
				m.mustCell(spec.ID, "curve_end", spec.CurveEnd))
			m.junctions = append(m.junctions, j)
			m.updatables = append(m.updatables, j)
			piece = j
		case entity.TrackTypeDoubleCurve:
			j := newDoubleCurveJunctionTrack(m.ctx, spec.ID, m.grid,
				m.mustCell(spec.ID, "start", spec.Start),
				m.mustCell(spec.ID, "left_curve_control", spec.LeftCurveControl),
				m.mustCell(spec.ID, "left_curve_end", spec.LeftCurveEnd),
				m.mustCell(spec.ID, "right_curve_control", spec.RightCurveControl),
				m.mustCell(spec.ID, "right_curve_end", spec.RightCurveEnd))
			m.junctions = append(m.junctions, j)
			m.updatables = append(m.updatables, j)
			piece = j
		case entity.TrackTypeStation:
			name := spec.Name
			if name == "" {
				name = spec.ID
			}
			s := newStationTrack(m.ctx, spec.ID, name, m.grid,
				m.mustCell(spec.ID, "start", spec.Start),
				m.mustCell(spec.ID, "end", spec.End))
			m.stations = append(m.stations, s)
			m.updatables = append(m.updatables, s)
			piece = s
		default:
			log.Panicf("layout: track %s has unknown type %s", spec.ID, spec.Type)
		}
		m.pieces = append(m.pieces, piece)
	}
	m.data = lo.SliceToMap(m.pieces, func(p entity.ITrackPiece) (string, entity.ITrackPiece) {
		return p.ID(), p
	})

	// 接线：端点连接关系
	for _, spec := range layout.Tracks {
		piece := m.Get(spec.ID)
		for label, connSpec := range spec.Connections {
			ep := entity.Endpoint(label)
			if !lo.Contains(piece.Endpoints(), ep) {
				log.Panicf("layout: track %s has no endpoint %s", spec.ID, label)
			}
			other := m.Get(connSpec.Track)
			otherEp := entity.Endpoint(connSpec.Endpoint)
			if !lo.Contains(other.Endpoints(), otherEp) {
				log.Panicf("layout: track %s has no endpoint %s (connected from %s.%s)",
					connSpec.Track, connSpec.Endpoint, spec.ID, label)
			}
			piece.SetConnectionWhenInit(ep, entity.Connection{Piece: other, Endpoint: otherEp})
		}
	}

	// 接线：区段归属
	segmentNames := make([]string, 0)
	seen := make(map[string]struct{})
	for _, spec := range layout.Tracks {
		if spec.Segment == "" {
			continue
		}
		if _, ok := seen[spec.Segment]; !ok {
			seen[spec.Segment] = struct{}{}
			segmentNames = append(segmentNames, spec.Segment)
		}
	}
	segmentManager.Init(segmentNames)
	for _, spec := range layout.Tracks {
		if spec.Segment != "" {
			m.Get(spec.ID).SetSegmentWhenInit(segmentManager.Get(spec.Segment))
		}
	}

	// 接线：车站目的地集合
	stationNames := lo.Map(m.stations, func(s entity.IStation, _ int) string { return s.Name() })
	parallel.GoFor(m.stations, func(s entity.IStation) {
		others := lo.Filter(stationNames, func(name string, _ int) bool { return name != s.Name() })
		s.(*StationTrack).initStationsWhenInit(others)
	})

	log.Infof("track manager: %d pieces, %d junctions, %d stations, %d segments",
		len(m.pieces), len(m.junctions), len(m.stations), len(segmentNames))
}

// mustCell 校验并解析[row, col]格子坐标
func (m *TrackManager) mustCell(id, field string, v []int) gridCell {
	if len(v) != 2 {
		log.Panicf("layout: track %s field %s: expect [row, col], got %v", id, field, v)
	}
	if !m.grid.InBounds(v[0], v[1]) {
		log.Panicf("layout: track %s field %s: cell (%d, %d) out of grid %dx%d",
			id, field, v[0], v[1], m.grid.Rows(), m.grid.Cols())
	}
	return gridCell{row: v[0], col: v[1]}
}

// Get 根据ID获取轨道件实例
// 功能：通过轨道件ID查找对应的轨道件对象，如果不存在则panic
func (m *TrackManager) Get(id string) entity.ITrackPiece {
	if piece, ok := m.data[id]; !ok {
		log.Panicf("no id %s in track data", id)
		return nil
	} else {
		return piece
	}
}

// GetOrError 根据ID获取轨道件实例（带错误处理）
func (m *TrackManager) GetOrError(id string) (entity.ITrackPiece, error) {
	if piece, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in track data", id)
	} else {
		return piece, nil
	}
}

// 获取网格
func (m *TrackManager) Grid() *grid.Grid {
	return m.grid
}

// 获取全部车站
func (m *TrackManager) Stations() []entity.IStation {
	return m.stations
}

// 获取全部道岔类轨道件
func (m *TrackManager) Junctions() []entity.IJunctionPiece {
	return m.junctions
}

// Prepare 准备阶段
// 说明：轨道件没有跨步缓冲区，本阶段无事可做
func (m *TrackManager) Prepare() {
}

// Update 更新阶段
// 功能：推进道岔切换状态机与车站乘客生成
// 说明：串行执行，保证同一步内各道岔到期顺序与布局顺序一致
func (m *TrackManager) Update() {
	for _, u := range m.updatables {
		u.update()
	}
}
