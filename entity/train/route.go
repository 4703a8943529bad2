package train

import (
	"github.com/railgrid/railsim/entity"
)

// Step 路线中的一步
// 功能：指定要通过的轨道件与进入/离开端点
type Step struct {
	Piece entity.ITrackPiece // 要通过的轨道件
	Entry entity.Endpoint    // 进入端点
	Exit  entity.Endpoint    // 离开端点
	Stop  bool               // 是否停站（仅对车站有效）
}

// Route 路线
// 功能：列车的有序行程表，步列表构建后不可变，游标只能单调前进
// 说明：游标到达步数即为终态，除显式Reset外不会回退
type Route struct {
	steps  []*Step
	cursor int
}

// NewRoute 创建路线
func NewRoute(steps []*Step) *Route {
	return &Route{steps: steps}
}

// 获取路线步数
func (r *Route) Len() int {
	return len(r.steps)
}

// Current 获取当前步，路线走完时返回nil
func (r *Route) Current() *Step {
	return r.Peek(0)
}

// Peek 获取当前步之后第offset步，越界时返回nil
func (r *Route) Peek(offset int) *Step {
	i := r.cursor + offset
	if i < 0 || i >= len(r.steps) {
		return nil
	}
	return r.steps[i]
}

// Advance 游标前进一步
// 说明：路线走完后为空操作
func (r *Route) Advance() {
	if r.cursor < len(r.steps) {
		r.cursor++
	}
}

// IsFinished 判断路线是否走完
func (r *Route) IsFinished() bool {
	return r.cursor >= len(r.steps)
}

// Reset 重置游标到路线开头
func (r *Route) Reset() {
	r.cursor = 0
}

// StopsAtStation 判断路线是否在指定轨道件上停站
func (r *Route) StopsAtStation(trackID string) bool {
	for _, s := range r.steps {
		if s.Stop && s.Piece.ID() == trackID {
			return true
		}
	}
	return false
}
