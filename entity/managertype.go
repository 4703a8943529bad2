package entity

import (
	"github.com/railgrid/railsim/utils/grid"
	"github.com/railgrid/railsim/utils/input"
)

// Manager依赖倒置

// entity/track/manager.go的依赖倒置
type ITrackManager interface {
	// 初始化：构建网格与全部轨道件，并完成连接关系与区段归属的接线
	Init(layout *input.TrackLayout, segmentManager ISegmentManager)

	// 输入轨道件ID，查找轨道件，如果不存在则panic
	Get(id string) ITrackPiece
	// 输入轨道件ID，查找轨道件，如果不存在则返回error
	GetOrError(id string) (ITrackPiece, error)

	Grid() *grid.Grid      // 获取网格
	Stations() []IStation  // 获取全部车站
	Junctions() []IJunctionPiece // 获取全部道岔类轨道件

	Prepare() // 准备阶段
	Update()  // 更新阶段：推进道岔切换状态机、车站乘客生成
}

// entity/segment/manager.go的依赖倒置
type ISegmentManager interface {
	Init(names []string) // 初始化：按名称注册全部区段

	// 输入区段名，查找区段，如果不存在则panic
	Get(name string) ISegment
	// 输入区段名，查找区段，如果不存在则返回error
	GetOrError(name string) (ISegment, error)
}

// entity/train/manager.go的依赖倒置
type ITrainManager interface {
	// 初始化：解析路线并把列车放入定时投放队列
	Init(routes *input.Routes, trackManager ITrackManager, segmentManager ISegmentManager)

	// 输入列车ID，查找列车，如果不存在则panic
	Get(id int32) ITrain
	// 输入列车ID，查找列车，如果不存在则返回error
	GetOrError(id int32) (ITrain, error)

	PrepareNode() // 准备阶段：投放到期列车、应用增量数组
	Prepare()     // 准备阶段：快照更新
	Update()      // 更新阶段：按固定顺序推进所有列车
	Running() int // 获取尚未完成路线的列车数
}
