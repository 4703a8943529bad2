package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，文件优先级高于MongoDB
type InputPath struct {
	DB   string `yaml:"db"`             // 数据库名
	Col  string `yaml:"col"`            // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
// 功能：定义仿真系统的所有输入数据配置
// 说明：包含轨道布局与列车路线两类输入数据的配置
type Input struct {
	URI    string    `yaml:"uri"`    // MongoDB连接字符串
	Layout InputPath `yaml:"layout"` // 轨道布局
	Routes InputPath `yaml:"routes"` // 列车路线
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围、步长，interval单位为模拟毫秒
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（模拟毫秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：包含时间控制、道岔切换、车站停靠等核心配置
type Control struct {
	Step          ControlStep `yaml:"step"`
	SwitchDelay   float64     `yaml:"switch_delay,omitempty"`   // 道岔切换耗时（模拟毫秒），默认2000
	StationDwell  float64     `yaml:"station_dwell,omitempty"`  // 车站停靠时长（模拟毫秒），默认1500
	DefaultSpeed  float64     `yaml:"default_speed,omitempty"`  // 列车默认速度（像素/步），默认3
	PassengerRate float64     `yaml:"passenger_rate,omitempty"` // 车站每步产生乘客的概率，默认0（不产生）
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Control Control `yaml:"control"` // 模拟过程控制
}
