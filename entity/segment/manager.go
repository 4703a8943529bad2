package segment

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/railgrid/railsim/entity"
)

// SegmentManager 区段管理器
// 功能：管理所有区段实体，提供创建与查找功能
type SegmentManager struct {
	ctx entity.ITaskContext

	data     map[string]*Segment
	segments []*Segment
}

// NewManager 创建区段管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的区段管理器实例
func NewManager(ctx entity.ITaskContext) *SegmentManager {
	return &SegmentManager{
		ctx:  ctx,
		data: make(map[string]*Segment),
	}
}

// Init 初始化所有区段
// 功能：按名称注册全部区段
// 参数：names-区段名列表，由轨道件管理器从布局中收集
func (m *SegmentManager) Init(names []string) {
	m.segments = lo.Map(names, func(name string, _ int) *Segment {
		return newSegment(name)
	})
	m.data = lo.SliceToMap(m.segments, func(s *Segment) (string, *Segment) {
		return s.name, s
	})
}

// Get 根据名称获取区段实例
// 功能：通过区段名查找对应的区段对象，如果不存在则panic
func (m *SegmentManager) Get(name string) entity.ISegment {
	if seg, ok := m.data[name]; !ok {
		log.Panicf("no name %s in segment data", name)
		return nil
	} else {
		return seg
	}
}

// GetOrError 根据名称获取区段实例（带错误处理）
func (m *SegmentManager) GetOrError(name string) (entity.ISegment, error) {
	if seg, ok := m.data[name]; !ok {
		return nil, fmt.Errorf("no name %s in segment data", name)
	} else {
		return seg, nil
	}
}
