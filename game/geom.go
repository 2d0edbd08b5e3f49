package game

import "math"

// Point 世界坐标（单位与 WorldSize 一致）
type Point struct {
	X float64
	Y float64
}

// Dist 两点欧氏距离
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Dist2 两点距离平方（比较用，省开方）
func Dist2(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// NormalizeAngle 将角度规约到 (-π, π]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// TurnToward 沿最短弧从 cur 向 target 转动，单步幅度不超过 maxDelta。
// 朝一个方向转 1° 与朝反方向转 359° 必须得到同一结果。
func TurnToward(cur, target, maxDelta float64) float64 {
	diff := NormalizeAngle(target - cur)
	if diff > maxDelta {
		diff = maxDelta
	} else if diff < -maxDelta {
		diff = -maxDelta
	}
	return NormalizeAngle(cur + diff)
}

// InBounds 点是否在 [0, WorldSize] 内（两轴都算）
func InBounds(p Point) bool {
	return p.X >= 0 && p.X <= WorldSize && p.Y >= 0 && p.Y <= WorldSize
}

// ClampToWorld 将点裁剪回世界边界内
func ClampToWorld(p Point) Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X > WorldSize {
		p.X = WorldSize
	}
	if p.Y > WorldSize {
		p.Y = WorldSize
	}
	return p
}
