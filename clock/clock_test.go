package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/railgrid/railsim/clock"
	"github.com/railgrid/railsim/utils/config"
)

func TestClock(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Total: 100, Interval: 100})
	assert.Equal(t, int32(10), c.InternalStep)
	assert.Equal(t, int32(110), c.END_STEP)
	assert.Equal(t, 1000.0, c.T)

	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
	assert.Equal(t, 1100.0, c.T)

	c.Init()
	assert.Equal(t, int32(10), c.InternalStep)
	assert.Equal(t, 1000.0, c.T)
}

func TestClockString(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 10, Interval: 500})
	c.InternalStep = 7205
	c.T = float64(c.InternalStep) * c.DT // 3602500ms
	assert.Equal(t, "01:00:02.500", c.String())

	hour, minute, second := c.GetHourMinuteSecond()
	assert.Equal(t, 1, hour)
	assert.Equal(t, 0, minute)
	assert.InDelta(t, 2.5, second, 1e-9)
}
