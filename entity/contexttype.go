package entity

import (
	"github.com/railgrid/railsim/clock"
	"github.com/railgrid/railsim/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	TrackManager() ITrackManager
	SegmentManager() ISegmentManager
	TrainManager() ITrainManager
	RuntimeConfig() *config.RuntimeConfig
}
