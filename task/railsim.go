package task

import (
	"flag"
)

const (
	SelfName = "railsim" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
	stopWhenAllDone   = flag.Bool("stop_when_all_done", true, "所有列车完成路线后提前结束仿真")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 管理器准备：投放到期列车、应用列车增量数组
// 说明：确保所有系统组件在更新阶段前都处于正确状态
func (ctx *Context) prepare() {
	ctx.clock.InternalStep++
	ctx.clock.T = float64(ctx.clock.InternalStep) * ctx.clock.DT

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) running trains: %d",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.trainManager.Running(),
		)
	}

	// Prepare
	ctx.trainManager.PrepareNode()
	ctx.trainManager.Prepare()
	ctx.trackManager.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：在每个仿真步骤中执行主要的仿真逻辑
// 算法说明：
// 1. 轨道件更新：推进所有道岔的切换状态机与车站乘客生成
// 2. 列车更新：按固定顺序推进所有列车的状态机
// 说明：必须先更新道岔再更新列车，且全程串行；列车在本步观察到的
// 锁状态是此前更新的列车留下的，预约一旦成功不会被本步内回退
func (ctx *Context) update() {
	ctx.trackManager.Update()
	ctx.trainManager.Update()
}

// Run 运行
// 功能：执行完整的仿真循环，直到到达结束步或所有列车完成路线
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	for {
		ctx.prepare()
		ctx.update()
		if ctx.clock.InternalStep+1 >= ctx.clock.END_STEP {
			break
		}
		if *stopWhenAllDone && ctx.trainManager.Running() == 0 {
			log.Infof("all trains finished at step %d", ctx.clock.InternalStep)
			break
		}
		if ctx.closed.Load() {
			break
		}
	}
	log.Infof("engine complete")
	ctx.Close()
}
