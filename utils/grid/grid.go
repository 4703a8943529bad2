// 网格坐标系，负责整数格子坐标与像素坐标之间的换算
package grid

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
)

// Grid 二维网格
// 功能：表示放置轨道件的二维网格，提供格子坐标与像素坐标的互相转换
// 说明：所有轨道件的几何均以格子中心的像素坐标为基准，转换在格子中心上是双射
type Grid struct {
	rows     int     // 行数
	cols     int     // 列数
	cellSize float64 // 每个格子的像素尺寸
}

// New 创建网格
// 功能：初始化一个新的网格实例
// 参数：rows-行数，cols-列数，cellSize-格子像素尺寸
// 返回：初始化完成的网格指针
func New(rows, cols int, cellSize float64) *Grid {
	return &Grid{
		rows:     rows,
		cols:     cols,
		cellSize: cellSize,
	}
}

// 获取网格行数
func (g *Grid) Rows() int {
	return g.rows
}

// 获取网格列数
func (g *Grid) Cols() int {
	return g.cols
}

// 获取格子像素尺寸
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// InBounds 检查格子坐标是否在网格范围内
// 功能：判断(row, col)是否落在[0,rows)×[0,cols)内
// 返回：true表示在范围内
func (g *Grid) InBounds(row, col int) bool {
	return 0 <= row && row < g.rows && 0 <= col && col < g.cols
}

// GridToScreen 将格子坐标转换为格子中心的像素坐标
// 功能：计算(row, col)格子中心的像素坐标
// 返回：格子中心的像素坐标
func (g *Grid) GridToScreen(row, col int) geometry.Point {
	return geometry.Point{
		X: float64(col)*g.cellSize + g.cellSize/2,
		Y: float64(row)*g.cellSize + g.cellSize/2,
	}
}

// ScreenToGrid 将像素坐标转换为格子坐标
// 功能：计算像素坐标(x, y)所在的格子
// 返回：(row, col)格子坐标
// 说明：向下取整，网格外的负坐标映射到负格子而不是0
func (g *Grid) ScreenToGrid(x, y float64) (row, col int) {
	col = int(math.Floor(x / g.cellSize))
	row = int(math.Floor(y / g.cellSize))
	return
}
