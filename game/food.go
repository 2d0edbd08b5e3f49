package game

import (
	"fmt"
	"math/rand"
)

// Food 可被吃掉的食物。普通食物价值小，超级食物由死亡掉落产生、
// 价值与体积更大，只被吃掉、不会回补。
type Food struct {
	ID    string
	Pos   Point
	Color string
	Size  float64
	Value int
	Super bool
}

// nextFoodID 食物编号只在所属世界内分配与保证唯一。
// 房间（世界）之间不共享任何可变状态，可以无同步地并行推进。
func (w *World) nextFoodID() string {
	w.foodSeq++
	return fmt.Sprintf("f%d", w.foodSeq)
}

// newFood 在世界内（内缩 FoodInset）随机位置生成一个普通食物
func (w *World) newFood() *Food {
	return &Food{
		ID: w.nextFoodID(),
		Pos: Point{
			X: FoodInset + rand.Float64()*(WorldSize-2*FoodInset),
			Y: FoodInset + rand.Float64()*(WorldSize-2*FoodInset),
		},
		Color: foodColors[rand.Intn(len(foodColors))],
		Size:  4 + rand.Float64()*3,
		Value: FoodValue,
	}
}

// newSuperFoodAt 在指定位置附近生成一个超级食物（小半径散布，裁剪回边界内）。
// 死亡掉落使用：每个抽样身体节点正好一个。
func (w *World) newSuperFoodAt(p Point) *Food {
	pos := Point{
		X: p.X + (rand.Float64()*2-1)*DeathScatter,
		Y: p.Y + (rand.Float64()*2-1)*DeathScatter,
	}
	return &Food{
		ID:    w.nextFoodID(),
		Pos:   ClampToWorld(pos),
		Color: superFoodColors[rand.Intn(len(superFoodColors))],
		Size:  9 + rand.Float64()*4,
		Value: SuperFoodValue,
		Super: true,
	}
}
