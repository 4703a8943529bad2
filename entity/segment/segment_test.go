package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/entity/segment"
)

// stubTrain 测试用列车替身
type stubTrain struct {
	id int32
}

func (t *stubTrain) ID() int32                      { return t.id }
func (t *stubTrain) String() string                 { return "stubTrain" }
func (t *stubTrain) X() float64                     { return 0 }
func (t *stubTrain) Y() float64                     { return 0 }
func (t *stubTrain) Angle() float64                 { return 0 }
func (t *stubTrain) RowCol() (int, int)             { return 0, 0 }
func (t *stubTrain) SOnCurve() float64              { return 0 }
func (t *stubTrain) EntryEndpoint() entity.Endpoint { return entity.EndpointA }
func (t *stubTrain) ExitEndpoint() entity.Endpoint  { return entity.EndpointB }
func (t *stubTrain) State() entity.TrainState       { return entity.TrainStateTravelling }
func (t *stubTrain) Speed() float64                 { return 0 }
func (t *stubTrain) SetXY(x, y float64)             {}
func (t *stubTrain) SetAngle(angle float64)         {}
func (t *stubTrain) SetRowCol(row, col int)         {}
func (t *stubTrain) SetSOnCurve(s float64)          {}

func TestSegmentExclusivity(t *testing.T) {
	m := segment.NewManager(nil)
	m.Init([]string{"s1"})
	seg := m.Get("s1")

	first := &stubTrain{id: 1}
	second := &stubTrain{id: 2}

	assert.Nil(t, seg.OccupiedBy())
	assert.True(t, seg.RequestEntry(first))
	assert.Equal(t, entity.ITrain(first), seg.OccupiedBy())

	// 同一步内第二个申请者失败，占用者不变
	assert.False(t, seg.RequestEntry(second))
	assert.Equal(t, entity.ITrain(first), seg.OccupiedBy())

	// 同一列车重复申请幂等成功
	assert.True(t, seg.RequestEntry(first))
	assert.Equal(t, entity.ITrain(first), seg.OccupiedBy())
}

func TestSegmentLeave(t *testing.T) {
	m := segment.NewManager(nil)
	m.Init([]string{"s1"})
	seg := m.Get("s1")

	holder := &stubTrain{id: 1}
	other := &stubTrain{id: 2}

	assert.True(t, seg.RequestEntry(holder))

	// 非持有者不能释放
	seg.Leave(other)
	assert.Equal(t, entity.ITrain(holder), seg.OccupiedBy())

	// 持有者释放后其他列车可以进入
	seg.Leave(holder)
	assert.Nil(t, seg.OccupiedBy())
	assert.True(t, seg.RequestEntry(other))
}

func TestSegmentManagerLookup(t *testing.T) {
	m := segment.NewManager(nil)
	m.Init([]string{"s1", "s2"})

	assert.Equal(t, "s1", m.Get("s1").Name())
	_, err := m.GetOrError("s3")
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get("s3") })
}
