package train

import (
	"github.com/railgrid/railsim/entity"
)

// Carriage 车厢
// 功能：列车的载客单元，维护容量与在车乘客列表
type Carriage struct {
	capacity   int
	passengers []*entity.Passenger
}

func newCarriage(capacity int) *Carriage {
	return &Carriage{capacity: capacity}
}

// 获取车厢容量
func (c *Carriage) Capacity() int {
	return c.capacity
}

// Occupied 获取在车乘客数（含同行人数）
func (c *Carriage) Occupied() int {
	count := 0
	for _, p := range c.passengers {
		count += p.GroupSize
	}
	return count
}

// FreeSpace 获取剩余容量
func (c *Carriage) FreeSpace() int {
	return c.capacity - c.Occupied()
}

// Load 乘客上车
// 说明：容量不足时拒绝，返回false
func (c *Carriage) Load(p *entity.Passenger) bool {
	if c.FreeSpace() < p.GroupSize {
		return false
	}
	c.passengers = append(c.passengers, p)
	return true
}

// Empty 清空车厢
func (c *Carriage) Empty() {
	c.passengers = nil
}

// Unload 到站乘客下车
// 功能：移除目的地为指定车站的乘客并标记为已到达
// 参数：stationName-当前停靠的车站名
// 返回：下车乘客数（含同行人数）
func (c *Carriage) Unload(stationName string) int {
	alighted := 0
	kept := c.passengers[:0]
	for _, p := range c.passengers {
		if p.Destination == stationName {
			p.Status = entity.PassengerStatusArrived
			alighted += p.GroupSize
		} else {
			kept = append(kept, p)
		}
	}
	c.passengers = kept
	return alighted
}
