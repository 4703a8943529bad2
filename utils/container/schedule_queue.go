package container

import "container/heap"

// scheduleItem 时间队列中单个元素
// 功能：表示时间队列中的一个元素，包含值和到期时间
type scheduleItem[T any] struct {
	Value T       // 元素的值（任意类型）
	Due   float64 // 到期时间（模拟毫秒，越小越优先）
	index int     // 项在堆中的索引
}

// scheduleHeap 实现了heap.Interface的最小堆
type scheduleHeap[T any] []*scheduleItem[T]

func (h scheduleHeap[T]) Len() int { return len(h) }

// Less 比较两个元素的到期时间
// 说明：使用小于号，使得Pop方法返回到期最早的项（最小堆）
func (h scheduleHeap[T]) Less(i, j int) bool {
	return h[i].Due < h[j].Due
}

func (h scheduleHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *scheduleHeap[T]) Push(x any) {
	n := len(*h)
	item := x.(*scheduleItem[T])
	item.index = n
	*h = append(*h, item)
}

func (h *scheduleHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.index = -1 // 为了安全起见
	*h = old[0 : n-1]
	return item
}

// ScheduleQueue 按时间排序的待办队列
// 功能：保存带有到期时间的元素，按到期时间从早到晚弹出
// 说明：用于管理定时事件（如列车的定时投放），基于标准库heap实现
type ScheduleQueue[T any] struct {
	queue scheduleHeap[T]
}

// NewScheduleQueue 创建时间队列
// 功能：初始化一个新的时间队列实例
// 返回：新创建的时间队列指针
func NewScheduleQueue[T any]() *ScheduleQueue[T] {
	return &ScheduleQueue[T]{queue: make(scheduleHeap[T], 0)}
}

// Len 获取当前队列长度
func (q *ScheduleQueue[T]) Len() int {
	return len(q.queue)
}

// Push 加入元素并维护堆结构
// 参数：value-要添加的元素值，due-到期时间
func (q *ScheduleQueue[T]) Push(value T, due float64) {
	heap.Push(&q.queue, &scheduleItem[T]{
		Value: value,
		Due:   due,
	})
}

// PopDue 弹出所有到期的元素
// 功能：移除并返回所有到期时间不晚于now的元素，按到期时间从早到晚排列
// 参数：now-当前时间
// 返回：到期元素列表，没有到期元素时返回nil
func (q *ScheduleQueue[T]) PopDue(now float64) (due []T) {
	for len(q.queue) > 0 && q.queue[0].Due <= now {
		item := heap.Pop(&q.queue).(*scheduleItem[T])
		due = append(due, item.Value)
	}
	return
}
