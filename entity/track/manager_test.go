package track

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/entity/segment"
	"github.com/railgrid/railsim/utils/config"
	"github.com/railgrid/railsim/utils/input"
)

func testLayout() *input.TrackLayout {
	return &input.TrackLayout{
		DisplayName: "test",
		Grid:        input.GridSpec{Rows: 6, Cols: 6, CellSize: 40},
		Tracks: []*input.TrackSpec{
			{
				ID: "t1", Type: "straight", Start: []int{0, 0}, End: []int{0, 3},
				Segment:     "s1",
				Connections: map[string]input.ConnectionSpec{"B": {Track: "j1", Endpoint: "A"}},
			},
			{
				ID: "j1", Type: "junction",
				Start: []int{0, 3}, StraightEnd: []int{0, 5},
				CurveControl: []int{2, 3}, CurveEnd: []int{3, 5},
				Connections: map[string]input.ConnectionSpec{
					"A": {Track: "t1", Endpoint: "B"},
					"S": {Track: "st1", Endpoint: "A"},
				},
			},
			{
				ID: "st1", Type: "station", Name: "Central",
				Start: []int{0, 5}, End: []int{5, 5},
				Segment:     "s2",
				Connections: map[string]input.ConnectionSpec{"A": {Track: "j1", Endpoint: "S"}},
			},
		},
	}
}

func TestManagerInit(t *testing.T) {
	ctx := newTestContext(config.Config{})
	m := NewManager(ctx)
	sm := segment.NewManager(nil)
	m.Init(testLayout(), sm)

	assert.Equal(t, 6, m.Grid().Rows())
	assert.Len(t, m.Junctions(), 1)
	assert.Len(t, m.Stations(), 1)

	// 连接关系双向接好
	t1 := m.Get("t1")
	conn, ok := t1.Connection(entity.EndpointB)
	assert.True(t, ok)
	assert.Equal(t, "j1", conn.Piece.ID())
	assert.Equal(t, entity.EndpointA, conn.Endpoint)
	_, ok = t1.Connection(entity.EndpointA)
	assert.False(t, ok)

	// 区段注册并写回轨道件
	assert.Equal(t, sm.Get("s1"), t1.Segment())
	assert.Equal(t, sm.Get("s2"), m.Get("st1").Segment())
	assert.Nil(t, m.Get("j1").Segment())

	// 查找
	_, err := m.GetOrError("nope")
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get("nope") })
}

func TestManagerInitRejectsBadLayout(t *testing.T) {
	ctx := newTestContext(config.Config{})

	// 未知类型
	assert.Panics(t, func() {
		NewManager(ctx).Init(&input.TrackLayout{
			Grid:   input.GridSpec{Rows: 3, Cols: 3, CellSize: 40},
			Tracks: []*input.TrackSpec{{ID: "x", Type: "teleporter", Start: []int{0, 0}, End: []int{0, 1}}},
		}, segment.NewManager(nil))
	})

	// 坐标越界
	assert.Panics(t, func() {
		NewManager(ctx).Init(&input.TrackLayout{
			Grid:   input.GridSpec{Rows: 3, Cols: 3, CellSize: 40},
			Tracks: []*input.TrackSpec{{ID: "x", Type: "straight", Start: []int{0, 0}, End: []int{0, 9}}},
		}, segment.NewManager(nil))
	})

	// 连接到不存在的端点
	assert.Panics(t, func() {
		NewManager(ctx).Init(&input.TrackLayout{
			Grid: input.GridSpec{Rows: 3, Cols: 3, CellSize: 40},
			Tracks: []*input.TrackSpec{
				{ID: "a", Type: "straight", Start: []int{0, 0}, End: []int{0, 1},
					Connections: map[string]input.ConnectionSpec{"B": {Track: "b", Endpoint: "S"}}},
				{ID: "b", Type: "straight", Start: []int{0, 1}, End: []int{0, 2}},
			},
		}, segment.NewManager(nil))
	})
}
