package config

const (
	defaultSwitchDelay  = 2000 // 道岔切换耗时默认值（模拟毫秒）
	defaultStationDwell = 1500 // 车站停靠时长默认值（模拟毫秒）
	defaultSpeed        = 3    // 列车默认速度（像素/步）
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，补全缺省项后的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证和缺省值填充
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：确保配置的正确性和一致性，为仿真运行提供有效配置
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	if rc.C.SwitchDelay <= 0 {
		rc.C.SwitchDelay = defaultSwitchDelay
	}
	if rc.C.StationDwell <= 0 {
		rc.C.StationDwell = defaultStationDwell
	}
	if rc.C.DefaultSpeed <= 0 {
		rc.C.DefaultSpeed = defaultSpeed
	}

	return rc
}
