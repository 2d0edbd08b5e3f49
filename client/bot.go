package client

import (
	"math"
	"math/rand"
	"time"

	"serpentarena/game"
)

// 机器人调参（仅离线模式使用，不属于权威协议的一部分）
const (
	BotLookAhead      = 120.0 // 沿当前朝向的前瞻距离
	BotDangerRadius   = 80.0  // 前瞻点距他蛇身体小于该值视为威胁
	BotBoundaryBuffer = 150.0 // 前瞻点距边界小于该值视为威胁
	BotFoodSeekRadius = 500.0 // 在此范围内找最近的食物
	BotFoodProb       = 0.8   // 追食物的概率，否则游荡

	botThreatInterval  = 100 * time.Millisecond
	botCalmIntervalMin = 150 * time.Millisecond
	botCalmIntervalMax = 300 * time.Millisecond
)

// Controller 自主代理的决策接口：产出与真实输入同形的 {targetAngle, isBoosting}。
// 核心物理只认这个形状，不关心内部怎么决策。
type Controller interface {
	Decide(now time.Time, self *game.Serpent, w *game.World) (targetAngle float64, boosting bool)
}

// Bot 简单反应式控制器：周期性决策（受威胁时更频繁），前瞻避让优先，
// 其次高概率追最近食物，否则游荡。
type Bot struct {
	next        time.Time
	targetAngle float64
	boosting    bool
	inited      bool
}

// Decide 实现 Controller
func (b *Bot) Decide(now time.Time, self *game.Serpent, w *game.World) (float64, bool) {
	if b.inited && now.Before(b.next) {
		return b.targetAngle, b.boosting
	}
	b.inited = true

	ahead := game.Point{
		X: self.Head.X + math.Cos(self.Angle)*BotLookAhead,
		Y: self.Head.Y + math.Sin(self.Angle)*BotLookAhead,
	}

	if b.threatened(ahead, self, w) {
		// 急转向世界中心方向（带随机偏移）并加速脱离
		center := game.Point{X: game.WorldSize / 2, Y: game.WorldSize / 2}
		b.targetAngle = game.NormalizeAngle(
			math.Atan2(center.Y-self.Head.Y, center.X-self.Head.X) + (rand.Float64()-0.5))
		b.boosting = true
		b.next = now.Add(botThreatInterval)
		return b.targetAngle, b.boosting
	}

	b.boosting = false
	if f := nearestFood(self.Head, w); f != nil && rand.Float64() < BotFoodProb {
		b.targetAngle = math.Atan2(f.Pos.Y-self.Head.Y, f.Pos.X-self.Head.X)
	} else {
		// 游荡：在当前朝向上加一点随机偏转
		b.targetAngle = game.NormalizeAngle(self.Angle + (rand.Float64()*2-1)*0.8)
	}
	jitter := time.Duration(rand.Int63n(int64(botCalmIntervalMax - botCalmIntervalMin)))
	b.next = now.Add(botCalmIntervalMin + jitter)
	return b.targetAngle, b.boosting
}

func (b *Bot) threatened(ahead game.Point, self *game.Serpent, w *game.World) bool {
	if ahead.X < BotBoundaryBuffer || ahead.X > game.WorldSize-BotBoundaryBuffer ||
		ahead.Y < BotBoundaryBuffer || ahead.Y > game.WorldSize-BotBoundaryBuffer {
		return true
	}
	r2 := BotDangerRadius * BotDangerRadius
	for _, id := range w.Order() {
		other := w.Serpents[id]
		if other == self || other.Dead {
			continue
		}
		for _, seg := range other.SampledBody() {
			if game.Dist2(ahead, seg) < r2 {
				return true
			}
		}
	}
	return false
}

func nearestFood(from game.Point, w *game.World) *game.Food {
	var best *game.Food
	bestD2 := BotFoodSeekRadius * BotFoodSeekRadius
	for _, f := range w.Foods {
		if d2 := game.Dist2(from, f.Pos); d2 < bestD2 {
			bestD2 = d2
			best = f
		}
	}
	return best
}
