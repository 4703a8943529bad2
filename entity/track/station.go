package track

import (
	"hash/fnv"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/utils/grid"
	"github.com/railgrid/railsim/utils/randengine"
)

// 同行人数1~4的权重
var groupSizeWeight = []float64{0.5, 0.25, 0.15, 0.1}

// 乘客ID分配器
// 说明：乘客只在Update阶段串行生成，无并发
var nextPassengerID int32

// StationTrack 车站
// 功能：带站台的直线轨道件，端点为{A, B}；维护等待乘客队列并
// 按配置概率生成新乘客
// 说明：几何与移动行为与直线轨道完全一致
type StationTrack struct {
	StraightTrack

	ctx  entity.ITaskContext
	name string

	gen           *randengine.Engine  // 乘客生成的随机数引擎，按车站ID取种子
	otherStations []string            // 可作为目的地的其他车站名
	waiting       []*entity.Passenger // 等待乘客队列（到达顺序）
}

func newStationTrack(ctx entity.ITaskContext, id, name string, g *grid.Grid, start, end gridCell) *StationTrack {
	h := fnv.New64a()
	h.Write([]byte(id))
	return &StationTrack{
		StraightTrack: *newStraightTrack(id, entity.TrackTypeStation, g, start, end),
		ctx:           ctx,
		name:          name,
		gen:           randengine.New(h.Sum64()),
	}
}

// 获取车站名
func (t *StationTrack) Name() string {
	return t.name
}

// WaitingCount 获取等待乘客数（含同行人数）
func (t *StationTrack) WaitingCount() int {
	count := 0
	for _, p := range t.waiting {
		count += p.GroupSize
	}
	return count
}

// 获取等待乘客列表
func (t *StationTrack) WaitingPassengers() []*entity.Passenger {
	return t.waiting
}

// AddWaitingPassenger 添加等待乘客
func (t *StationTrack) AddWaitingPassenger(p *entity.Passenger) {
	t.waiting = append(t.waiting, p)
}

// TakeWaiting 取走至多max名等待乘客
// 功能：按到达顺序取走等待乘客，同行的一组人不拆开
// 参数：max-可容纳的乘客数上限
// 返回：取走的乘客列表
func (t *StationTrack) TakeWaiting(max int) []*entity.Passenger {
	var taken []*entity.Passenger
	count := 0
	i := 0
	for ; i < len(t.waiting); i++ {
		p := t.waiting[i]
		if count+p.GroupSize > max {
			break
		}
		count += p.GroupSize
		taken = append(taken, p)
	}
	t.waiting = t.waiting[i:]
	return taken
}

// initStationsWhenInit 初始化阶段设置可作为目的地的其他车站名
func (t *StationTrack) initStationsWhenInit(others []string) {
	t.otherStations = others
}

// update 按配置概率生成新的等待乘客
func (t *StationTrack) update() {
	rate := t.ctx.RuntimeConfig().C.PassengerRate
	if rate <= 0 || len(t.otherStations) == 0 {
		return
	}
	if !t.gen.PTrue(rate) {
		return
	}
	nextPassengerID++
	p := &entity.Passenger{
		ID:          nextPassengerID,
		Origin:      t.name,
		Destination: t.otherStations[t.gen.Intn(len(t.otherStations))],
		GroupSize:   int(t.gen.DiscreteDistribution(groupSizeWeight)) + 1,
		Status:      entity.PassengerStatusWaiting,
	}
	t.waiting = append(t.waiting, p)
	log.Debugf("station %s: %v joins the queue (group of %d)", t.name, p, p.GroupSize)
}
