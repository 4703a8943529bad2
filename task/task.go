package task

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/railgrid/railsim/clock"
	"github.com/railgrid/railsim/entity"
	"github.com/railgrid/railsim/entity/segment"
	"github.com/railgrid/railsim/entity/track"
	"github.com/railgrid/railsim/entity/train"
	"github.com/railgrid/railsim/utils/config"
	"github.com/railgrid/railsim/utils/input"
)

var log = logrus.WithField("module", "task")

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：管理仿真系统的所有组件，包括时钟、各管理器与运行时配置
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 轨道件管理器
	trackManager entity.ITrackManager
	// 区段管理器
	segmentManager entity.ISegmentManager
	// 列车管理器
	trainManager entity.ITrainManager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建Context实例并初始化时钟
// 2. 加载轨道布局与列车路线输入
// 3. 创建各管理器（轨道件、区段、列车）
func NewContext(job string, c config.Config) *Context {
	ctx := &Context{
		job: job,
	}
	ctx.clock = clock.New(c.Control.Step)

	// 加载模拟器启动所需的数据
	ctx.initRes = input.Init(c)

	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	// 新建各类模拟对象
	ctx.trackManager = track.NewManager(ctx)
	ctx.segmentManager = segment.NewManager(ctx)
	ctx.trainManager = train.NewManager(ctx)

	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) TrackManager() entity.ITrackManager {
	return ctx.trackManager
}

func (ctx *Context) SegmentManager() entity.ISegmentManager {
	return ctx.segmentManager
}

func (ctx *Context) TrainManager() entity.ITrainManager {
	return ctx.trainManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Init 初始化仿真任务
// 说明：轨道件初始化内部完成区段注册，列车初始化依赖完整的轨道图
func (ctx *Context) Init() {
	ctx.clock.Init()

	initRes := ctx.initRes

	log.Infof("Track: %v", len(initRes.Layout.Tracks))
	log.Infof("Train: %v", len(initRes.Routes.Trains))

	// 先完成轨道件的所有初始化（含区段注册与连接关系接线）
	ctx.trackManager.Init(initRes.Layout, ctx.segmentManager)
	// 在建好轨道图的基础上构建列车
	ctx.trainManager.Init(initRes.Routes, ctx.trackManager, ctx.segmentManager)
}

// Close 结束仿真任务
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}
