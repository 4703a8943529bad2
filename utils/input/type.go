package input

// GridSpec 网格描述
type GridSpec struct {
	Rows     int     `json:"rows" bson:"rows"`           // 行数
	Cols     int     `json:"cols" bson:"cols"`           // 列数
	CellSize float64 `json:"cell_size" bson:"cell_size"` // 格子像素尺寸
}

// ConnectionSpec 端点连接描述
// 说明：描述某个端点连接到哪个轨道件的哪个端点
type ConnectionSpec struct {
	Track    string `json:"track" bson:"track"`       // 对方轨道件ID
	Endpoint string `json:"endpoint" bson:"endpoint"` // 对方轨道件上的端点标签
}

// TrackSpec 单个轨道件描述
// 功能：布局文件中一条轨道件记录，几何字段按类型取用
// 说明：所有几何坐标均为[row, col]格子坐标；加载器负责保证
// 每个轨道件在列车使用前connections已全部填好
type TrackSpec struct {
	ID   string `json:"id" bson:"id"`     // 轨道件唯一ID
	Type string `json:"type" bson:"type"` // 类型（straight/curve/junction/double_curve_junction/station）

	// straight/curve/station
	Start   []int `json:"start,omitempty" bson:"start,omitempty"`     // 起点格子坐标
	End     []int `json:"end,omitempty" bson:"end,omitempty"`         // 终点格子坐标
	Control []int `json:"control,omitempty" bson:"control,omitempty"` // 曲线控制点格子坐标

	// junction（A/S/C）
	StraightEnd  []int `json:"straight_end,omitempty" bson:"straight_end,omitempty"`   // 直线支线终点
	CurveControl []int `json:"curve_control,omitempty" bson:"curve_control,omitempty"` // 曲线支线控制点
	CurveEnd     []int `json:"curve_end,omitempty" bson:"curve_end,omitempty"`         // 曲线支线终点

	// double_curve_junction（A/L/R）
	LeftCurveControl  []int `json:"left_curve_control,omitempty" bson:"left_curve_control,omitempty"`
	LeftCurveEnd      []int `json:"left_curve_end,omitempty" bson:"left_curve_end,omitempty"`
	RightCurveControl []int `json:"right_curve_control,omitempty" bson:"right_curve_control,omitempty"`
	RightCurveEnd     []int `json:"right_curve_end,omitempty" bson:"right_curve_end,omitempty"`

	Name    string `json:"name,omitempty" bson:"name,omitempty"`       // 车站名（仅station）
	Segment string `json:"segment,omitempty" bson:"segment,omitempty"` // 所属区段名，可为空

	Connections map[string]ConnectionSpec `json:"connections,omitempty" bson:"connections,omitempty"` // 端点->连接关系
}

// TrackLayout 轨道布局
// 功能：一张完整的轨道布局图，网格+轨道件列表
type TrackLayout struct {
	DisplayName string       `json:"display_name,omitempty" bson:"display_name,omitempty"` // 布局显示名
	Grid        GridSpec     `json:"grid" bson:"grid"`                                     // 网格描述
	Tracks      []*TrackSpec `json:"tracks" bson:"tracks"`                                 // 轨道件列表
}

// StepSpec 路线中的一步
// 说明：指定要走的轨道件与进入/离开端点，stop为true时列车在此站停靠
type StepSpec struct {
	Track string `json:"track" bson:"track"`                 // 轨道件ID
	Entry string `json:"entry" bson:"entry"`                 // 进入端点标签
	Exit  string `json:"exit" bson:"exit"`                   // 离开端点标签
	Stop  bool   `json:"stop,omitempty" bson:"stop,omitempty"` // 是否停站（仅对station有效）
}

// TrainSpec 单个列车描述
type TrainSpec struct {
	ID               int32       `json:"id,omitempty" bson:"id,omitempty"`                               // 列车ID，0表示由模拟器分配
	Colour           string      `json:"colour,omitempty" bson:"colour,omitempty"`                       // 列车颜色（仅展示用途的透传元数据）
	Row              int         `json:"row" bson:"row"`                                                 // 出生格子行
	Col              int         `json:"col" bson:"col"`                                                 // 出生格子列
	Speed            float64     `json:"speed,omitempty" bson:"speed,omitempty"`                         // 速度（像素/步），0表示使用默认值
	SpawnAt          float64     `json:"spawn_at,omitempty" bson:"spawn_at,omitempty"`                   // 投放时间（模拟毫秒）
	Carriages        int         `json:"carriages,omitempty" bson:"carriages,omitempty"`                 // 车厢数
	CarriageCapacity int         `json:"carriage_capacity,omitempty" bson:"carriage_capacity,omitempty"` // 每节车厢容量
	Route            []*StepSpec `json:"route" bson:"route"`                                             // 路线步列表
}

// Routes 列车路线输入
type Routes struct {
	Trains []*TrainSpec `json:"trains" bson:"trains"`
}
