// 区段互斥，同一区段同一时刻至多被一列列车占用
package segment

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/railgrid/railsim/entity"
)

var log = logrus.WithField("module", "segment")

// Segment 区段
// 功能：一组轨道件共享的互斥资源，保证同一时刻至多一列列车占用
// 说明：无排队、无公平性保证，申请失败的列车由自己在后续步重试
type Segment struct {
	name       string
	occupiedBy entity.ITrain // 当前占用者，空闲时为nil
}

func newSegment(name string) *Segment {
	return &Segment{name: name}
}

func (s *Segment) String() string {
	return fmt.Sprintf("Segment %s", s.name)
}

// 获取区段名
func (s *Segment) Name() string {
	return s.name
}

// 获取当前占用者，空闲时为nil
func (s *Segment) OccupiedBy() entity.ITrain {
	return s.occupiedBy
}

// RequestEntry 申请进入区段
// 功能：区段空闲时锁定并返回true；已被本列车占用时幂等成功；
// 被其他列车占用时返回false
func (s *Segment) RequestEntry(t entity.ITrain) bool {
	if s.occupiedBy == nil {
		s.occupiedBy = t
		log.Debugf("%v: acquired by %v", s, t)
		return true
	}
	return s.occupiedBy == t
}

// Leave 离开区段
// 说明：仅当前占用者可以释放，其余调用为空操作
func (s *Segment) Leave(t entity.ITrain) {
	if s.occupiedBy == t {
		s.occupiedBy = nil
		log.Debugf("%v: released by %v", s, t)
	}
}
