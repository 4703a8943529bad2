package train

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/container"
	"github.com/railgrid/railsim/utils/input"
)

// TrainManager 列车管理器
// 功能：管理所有列车实体，提供创建、查找、定时投放、每步更新等功能
type TrainManager struct {
	ctx entity.ITaskContext

	data   map[int32]*Train
	trains *container.IncrementalArray[*Train]
	spawns *container.ScheduleQueue[*Train] // 按投放时间排序的待投放列车
}

// NewManager 创建列车管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的列车管理器实例
func NewManager(ctx entity.ITaskContext) *TrainManager {
	return &TrainManager{
		ctx:    ctx,
		data:   make(map[int32]*Train),
		trains: container.NewIncrementalArray[*Train](),
		spawns: container.NewScheduleQueue[*Train](),
	}
}

// Init 初始化所有列车
// 功能：解析路线输入，构建列车对象并放入定时投放队列
// 参数：routes-列车路线输入，trackManager-轨道件管理器，
// segmentManager-区段管理器（资源经由轨道件获取，此处仅保持接线一致）
// 算法说明：
// 1. 把每一步的轨道件ID与端点标签解析成轨道件引用并校验
// 2. 相邻两步必须沿布局声明的端点连接关系行进
// 3. ID为0的列车由管理器分配新ID，显式ID不允许重复
// 4. 按spawn_at把列车压入投放队列，0表示仿真开始即投放
func (m *TrainManager) Init(routes *input.Routes, trackManager entity.ITrackManager, segmentManager entity.ISegmentManager) {
	nextID := int32(0)
	for _, spec := range routes.Trains {
		if spec.ID > nextID {
			nextID = spec.ID
		}
	}
	for _, spec := range routes.Trains {
		id := spec.ID
		if id == 0 {
			nextID++
			id = nextID
		}
		if _, ok := m.data[id]; ok {
			log.Panicf("routes: duplicated train id %d", id)
		}
		steps := lo.Map(spec.Route, func(s *input.StepSpec, _ int) *Step {
			piece := trackManager.Get(s.Track)
			entry, exit := entity.Endpoint(s.Entry), entity.Endpoint(s.Exit)
			if !lo.Contains(piece.Endpoints(), entry) {
				log.Panicf("routes: train %d: track %s has no endpoint %s", id, s.Track, s.Entry)
			}
			if !lo.Contains(piece.Endpoints(), exit) {
				log.Panicf("routes: train %d: track %s has no endpoint %s", id, s.Track, s.Exit)
			}
			if entry == exit {
				log.Panicf("routes: train %d: track %s entry equals exit (%s)", id, s.Track, s.Entry)
			}
			return &Step{Piece: piece, Entry: entry, Exit: exit, Stop: s.Stop}
		})
		// 校验：上一步的离开端点必须连接到下一步的进入端点
		for i := 0; i+1 < len(steps); i++ {
			cur, next := steps[i], steps[i+1]
			conn, ok := cur.Piece.Connection(cur.Exit)
			if !ok {
				log.Panicf("routes: train %d: track %s endpoint %s has no connection",
					id, cur.Piece.ID(), cur.Exit)
			}
			if conn.Piece != next.Piece || conn.Endpoint != next.Entry {
				log.Panicf("routes: train %d: step %d leaves %s.%s but the next step enters %s.%s",
					id, i, cur.Piece.ID(), cur.Exit, next.Piece.ID(), next.Entry)
			}
		}
		speed := spec.Speed
		if speed <= 0 {
			speed = m.ctx.RuntimeConfig().C.DefaultSpeed
		}
		if !trackManager.Grid().InBounds(spec.Row, spec.Col) {
			log.Panicf("routes: train %d: spawn cell (%d, %d) out of grid", id, spec.Row, spec.Col)
		}
		t := newTrain(m.ctx, id, spec.Colour, spec.Row, spec.Col, speed,
			spec.Carriages, spec.CarriageCapacity, NewRoute(steps))
		m.data[id] = t
		m.spawns.Push(t, spec.SpawnAt)
	}
	log.Infof("train manager: %d trains scheduled", len(m.data))
}

// Get 根据ID获取列车实例
// 功能：通过列车ID查找对应的列车对象，如果不存在则panic
func (m *TrainManager) Get(id int32) entity.ITrain {
	if t, ok := m.data[id]; !ok {
		log.Panicf("no id %d in train data", id)
		return nil
	} else {
		return t
	}
}

// GetOrError 根据ID获取列车实例（带错误处理）
func (m *TrainManager) GetOrError(id int32) (entity.ITrain, error) {
	if t, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in train data", id)
	} else {
		return t, nil
	}
}

// PrepareNode 准备阶段：投放到期列车并应用增量数组
func (m *TrainManager) PrepareNode() {
	for _, t := range m.spawns.PopDue(m.ctx.Clock().T) {
		m.trains.Add(t)
		log.Debugf("%v spawns at %s", t, m.ctx.Clock())
	}
	m.trains.Prepare()
}

// Prepare 准备阶段
// 说明：列车没有跨步快照，本阶段无事可做
func (m *TrainManager) Prepare() {
}

// Update 更新阶段
// 功能：按固定的投放顺序推进所有列车的状态机
// 说明：必须串行执行，同一步内先更新的列车先抢到资源，
// 后更新的列车观察到的是更新后的锁状态
func (m *TrainManager) Update() {
	for _, t := range m.trains.Data() {
		t.update()
	}
}

// Running 获取尚未完成路线的列车数（含未投放的列车）
func (m *TrainManager) Running() int {
	count := m.spawns.Len()
	for _, t := range m.trains.Data() {
		if t.state != entity.TrainStateFinished {
			count++
		}
	}
	return count
}
