package train_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/railgrid/railsim/clock"
	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/entity/segment"
	"github.com/railgrid/railsim/entity/track"
	"github.com/railgrid/railsim/entity/train"
	"github.com/railgrid/railsim/utils/config"
	"github.com/railgrid/railsim/utils/input"
)

// testContext 测试用任务上下文，接好真实的管理器
type testContext struct {
	clk *clock.Clock
	rc  *config.RuntimeConfig

	trackManager   entity.ITrackManager
	segmentManager entity.ISegmentManager
	trainManager   entity.ITrainManager
}

func newTestContext(layout *input.TrackLayout, routes *input.Routes) *testContext {
	ctx := &testContext{
		clk: clock.New(config.ControlStep{Start: 0, Total: 100000, Interval: 100}),
		rc:  config.NewRuntimeConfig(config.Config{}),
	}
	ctx.trackManager = track.NewManager(ctx)
	ctx.segmentManager = segment.NewManager(ctx)
	ctx.trainManager = train.NewManager(ctx)
	ctx.trackManager.Init(layout, ctx.segmentManager)
	ctx.trainManager.Init(routes, ctx.trackManager, ctx.segmentManager)
	return ctx
}

func (c *testContext) Clock() *clock.Clock                    { return c.clk }
func (c *testContext) TrackManager() entity.ITrackManager     { return c.trackManager }
func (c *testContext) SegmentManager() entity.ISegmentManager { return c.segmentManager }
func (c *testContext) TrainManager() entity.ITrainManager     { return c.trainManager }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig   { return c.rc }

// step 推进一个仿真步，顺序与主循环一致
func (c *testContext) step() {
	c.clk.InternalStep++
	c.clk.T = float64(c.clk.InternalStep) * c.clk.DT
	c.trainManager.PrepareNode()
	c.trackManager.Update()
	c.trainManager.Update()
}

// runUntil 推进仿真直到条件满足，超出maxSteps则测试失败
func (c *testContext) runUntil(t *testing.T, maxSteps int, cond func() bool) {
	for i := 0; i < maxSteps; i++ {
		if cond() {
			return
		}
		c.step()
	}
	assert.Fail(t, "condition not reached")
}

// twoStraightsLayout 两段直线轨道，各自独立区段
func twoStraightsLayout() *input.TrackLayout {
	return &input.TrackLayout{
		Grid: input.GridSpec{Rows: 6, Cols: 6, CellSize: 40},
		Tracks: []*input.TrackSpec{
			{ID: "t1", Type: "straight", Start: []int{0, 0}, End: []int{0, 3}, Segment: "s1",
				Connections: map[string]input.ConnectionSpec{"B": {Track: "t2", Endpoint: "A"}}},
			{ID: "t2", Type: "straight", Start: []int{0, 3}, End: []int{0, 5}, Segment: "s2",
				Connections: map[string]input.ConnectionSpec{"A": {Track: "t1", Endpoint: "B"}}},
		},
	}
}

// junctionStationLayout 直线-道岔曲线支线-车站
func junctionStationLayout() *input.TrackLayout {
	return &input.TrackLayout{
		Grid: input.GridSpec{Rows: 6, Cols: 6, CellSize: 40},
		Tracks: []*input.TrackSpec{
			{ID: "t1", Type: "straight", Start: []int{0, 0}, End: []int{0, 2}, Segment: "s1",
				Connections: map[string]input.ConnectionSpec{"B": {Track: "j1", Endpoint: "A"}}},
			{ID: "j1", Type: "junction",
				Start: []int{0, 2}, StraightEnd: []int{0, 5},
				CurveControl: []int{2, 2}, CurveEnd: []int{3, 4},
				Connections: map[string]input.ConnectionSpec{
					"A": {Track: "t1", Endpoint: "B"},
					"C": {Track: "st1", Endpoint: "A"},
				}},
			{ID: "st1", Type: "station", Name: "Central",
				Start: []int{3, 4}, End: []int{3, 5}, Segment: "s2",
				Connections: map[string]input.ConnectionSpec{"A": {Track: "j1", Endpoint: "C"}}},
		},
	}
}

func TestTrainCompletesRoute(t *testing.T) {
	ctx := newTestContext(twoStraightsLayout(), &input.Routes{
		Trains: []*input.TrainSpec{
			{ID: 1, Row: 0, Col: 0, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
				{Track: "t2", Entry: "A", Exit: "B"},
			}},
		},
	})
	tr := ctx.trainManager.Get(1).(*train.Train)

	ctx.runUntil(t, 200, func() bool { return tr.State() == entity.TrainStateFinished })

	// 终点吸附在t2的B端
	end := ctx.trackManager.Get("t2").GetEndpointCoords(entity.EndpointB)
	assert.Equal(t, end.X, tr.X())
	assert.Equal(t, end.Y, tr.Y())
	// 终态速度为0，占用的末端区段不释放（列车仍在轨道上）
	assert.Equal(t, 0.0, tr.Speed())
	assert.Equal(t, entity.ITrain(tr), ctx.segmentManager.Get("s2").OccupiedBy())
	assert.Nil(t, ctx.segmentManager.Get("s1").OccupiedBy())
	assert.Equal(t, 0, ctx.trainManager.Running())
}

func TestSegmentContentionBetweenTrains(t *testing.T) {
	ctx := newTestContext(twoStraightsLayout(), &input.Routes{
		Trains: []*input.TrainSpec{
			{ID: 1, Row: 0, Col: 0, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
				{Track: "t2", Entry: "A", Exit: "B"},
			}},
			{ID: 2, Row: 0, Col: 0, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
			}},
		},
	})
	first := ctx.trainManager.Get(1).(*train.Train)
	second := ctx.trainManager.Get(2).(*train.Train)
	s1 := ctx.segmentManager.Get("s1")
	spawnX, spawnY := second.X(), second.Y()

	// 先更新的列车抢到s1，后更新的列车留在出生格子上
	ctx.step()
	assert.Equal(t, entity.ITrain(first), s1.OccupiedBy())
	assert.Equal(t, spawnX, second.X())
	assert.Equal(t, spawnY, second.Y())

	// 只要first还占着s1，second就无法动身
	for i := 0; i < 200 && s1.OccupiedBy() == entity.ITrain(first); i++ {
		assert.Equal(t, spawnX, second.X())
		ctx.step()
	}
	assert.NotEqual(t, entity.ITrain(first), s1.OccupiedBy())

	// s1释放后second走完自己的路线
	ctx.runUntil(t, 200, func() bool { return second.State() == entity.TrainStateFinished })
	assert.Equal(t, entity.ITrain(second), s1.OccupiedBy())
	assert.Equal(t, 0, ctx.trainManager.Running())
}

func TestTrainWaitsForJunctionAndDwellsAtStation(t *testing.T) {
	ctx := newTestContext(junctionStationLayout(), &input.Routes{
		Trains: []*input.TrainSpec{
			{ID: 1, Row: 0, Col: 0, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
				{Track: "j1", Entry: "A", Exit: "C"},
				{Track: "st1", Entry: "A", Exit: "B", Stop: true},
			}},
		},
	})
	tr := ctx.trainManager.Get(1).(*train.Train)
	j1 := ctx.trackManager.Get("j1").(entity.IJunctionPiece)

	// 道岔初始在直线支线上，列车要走曲线支线，必须先等切换
	ctx.runUntil(t, 200, func() bool { return tr.State() == entity.TrainStateWaitingForJunction })
	assert.Equal(t, 0.0, tr.Speed())
	assert.True(t, j1.IsSwitching())
	// 等待期间已原子预约了道岔槽与道岔之后的区段
	assert.Equal(t, entity.ITrain(tr), j1.OccupiedBy())
	assert.Equal(t, entity.ITrain(tr), ctx.segmentManager.Get("s2").OccupiedBy())

	// 切换完成后继续行驶，到站后定时停靠
	ctx.runUntil(t, 500, func() bool { return tr.State() == entity.TrainStateStoppedTimed })
	// 已驶离道岔，占用槽释放
	assert.Nil(t, j1.OccupiedBy())

	// 停靠结束后路线走完
	ctx.runUntil(t, 500, func() bool { return tr.State() == entity.TrainStateFinished })
	end := ctx.trackManager.Get("st1").GetEndpointCoords(entity.EndpointB)
	assert.Equal(t, end.X, tr.X())
	assert.Equal(t, end.Y, tr.Y())
}

func TestTimedSpawn(t *testing.T) {
	ctx := newTestContext(twoStraightsLayout(), &input.Routes{
		Trains: []*input.TrainSpec{
			{ID: 1, Row: 0, Col: 0, SpawnAt: 500, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
			}},
		},
	})
	s1 := ctx.segmentManager.Get("s1")

	// T=500之前不投放
	for i := 0; i < 4; i++ {
		ctx.step()
		assert.Nil(t, s1.OccupiedBy())
	}
	assert.Equal(t, 1, ctx.trainManager.Running())

	// 第5步T=500，列车投放并取得区段
	ctx.step()
	assert.Equal(t, entity.ITrain(ctx.trainManager.Get(1)), s1.OccupiedBy())
}

func TestRouteMustFollowConnections(t *testing.T) {
	// 相邻两步没有声明的连接关系：t1从A端离开，而t1.A没有接线
	assert.Panics(t, func() {
		newTestContext(twoStraightsLayout(), &input.Routes{
			Trains: []*input.TrainSpec{
				{ID: 1, Row: 0, Col: 3, Route: []*input.StepSpec{
					{Track: "t1", Entry: "B", Exit: "A"},
					{Track: "t2", Entry: "A", Exit: "B"},
				}},
			},
		})
	})

	// 连接存在但对方端点对不上：t1.B接到t2.A，下一步却从B端进入
	assert.Panics(t, func() {
		newTestContext(twoStraightsLayout(), &input.Routes{
			Trains: []*input.TrainSpec{
				{ID: 1, Row: 0, Col: 0, Route: []*input.StepSpec{
					{Track: "t1", Entry: "A", Exit: "B"},
					{Track: "t2", Entry: "B", Exit: "A"},
				}},
			},
		})
	})
}

func TestRouteCursor(t *testing.T) {
	ctx := newTestContext(twoStraightsLayout(), &input.Routes{})
	t1 := ctx.trackManager.Get("t1")
	t2 := ctx.trackManager.Get("t2")

	r := train.NewRoute([]*train.Step{
		{Piece: t1, Entry: entity.EndpointA, Exit: entity.EndpointB},
		{Piece: t2, Entry: entity.EndpointA, Exit: entity.EndpointB, Stop: true},
	})
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.IsFinished())
	assert.Equal(t, t1, r.Current().Piece)
	assert.Equal(t, t2, r.Peek(1).Piece)
	assert.Nil(t, r.Peek(2))

	// 游标单调前进，走完后Advance是空操作
	r.Advance()
	assert.Equal(t, t2, r.Current().Piece)
	r.Advance()
	assert.True(t, r.IsFinished())
	assert.Nil(t, r.Current())
	r.Advance()
	assert.True(t, r.IsFinished())

	// Reset回到开头
	r.Reset()
	assert.False(t, r.IsFinished())
	assert.Equal(t, t1, r.Current().Piece)

	assert.True(t, r.StopsAtStation("t2"))
	assert.False(t, r.StopsAtStation("t1"))
}

func TestCarriageBoardingAtStation(t *testing.T) {
	ctx := newTestContext(junctionStationLayout(), &input.Routes{
		Trains: []*input.TrainSpec{
			{ID: 1, Row: 0, Col: 0, Carriages: 2, CarriageCapacity: 4, Route: []*input.StepSpec{
				{Track: "t1", Entry: "A", Exit: "B"},
				{Track: "j1", Entry: "A", Exit: "C"},
				{Track: "st1", Entry: "A", Exit: "B", Stop: true},
			}},
		},
	})
	tr := ctx.trainManager.Get(1).(*train.Train)
	st := ctx.trackManager.Get("st1").(entity.IStation)

	st.AddWaitingPassenger(&entity.Passenger{ID: 1, Origin: "Central", Destination: "North", GroupSize: 3})
	st.AddWaitingPassenger(&entity.Passenger{ID: 2, Origin: "Central", Destination: "North", GroupSize: 2})
	st.AddWaitingPassenger(&entity.Passenger{ID: 3, Origin: "Central", Destination: "North", GroupSize: 4})

	ctx.runUntil(t, 1000, func() bool { return tr.State() == entity.TrainStateStoppedTimed })

	// 两节容量4的车厢：第一节装3人组，第二节装2人组；
	// 4人组放不进剩余空间，留在站台上
	assert.Equal(t, 3, tr.Carriages()[0].Occupied())
	assert.Equal(t, 2, tr.Carriages()[1].Occupied())
	assert.Equal(t, 4, st.WaitingCount())
}
