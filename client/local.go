package client

import (
	"fmt"
	"time"

	"serpentarena/game"
)

// BotRespawnDelay 机器人死亡后到重生的间隔
const BotRespawnDelay = 5 * time.Second

// LocalGame 非联网单人模式：一条玩家蛇 + 若干机器人，
// 在本进程里直接驱动同一套权威物理，没有网络与快照。
type LocalGame struct {
	World    *game.World
	PlayerID string

	bots      map[string]*Bot
	deadSince map[string]time.Time
	last      time.Time
}

// NewLocalGame 创建离线对局
func NewLocalGame(playerName string, botCount int) *LocalGame {
	g := &LocalGame{
		World:     game.NewWorld(),
		PlayerID:  "player",
		bots:      make(map[string]*Bot),
		deadSince: make(map[string]time.Time),
	}
	g.World.AddSerpent(g.PlayerID, game.NewSerpent(playerName, game.Theme{}))
	for i := 1; i <= botCount; i++ {
		id := fmt.Sprintf("bot-%d", i)
		g.World.AddSerpent(id, game.NewSerpent(fmt.Sprintf("Bot %d", i), game.Theme{}))
		g.bots[id] = &Bot{}
	}
	return g
}

// Player 玩家那条蛇（死亡后仍可读，直到 RespawnPlayer）
func (g *LocalGame) Player() *game.Serpent {
	return g.World.Serpents[g.PlayerID]
}

// SetInput 玩家输入直通（与联网模式的输入形状一致）
func (g *LocalGame) SetInput(targetAngle float64, boosting bool) {
	if s := g.Player(); s != nil && !s.Dead {
		s.Steer(targetAngle, boosting)
	}
}

// RespawnPlayer 玩家重生：换一条全新的蛇，沿用原配色
func (g *LocalGame) RespawnPlayer() {
	old := g.Player()
	if old == nil || !old.Dead {
		return
	}
	g.World.AddSerpent(g.PlayerID, game.NewSerpent(old.Name, old.Theme))
}

// Step 推进一帧：机器人决策 → 物理 → 到点的机器人重生。
// 机器人重生同样是整体换引用，绝不在旧对象上覆写字段。
func (g *LocalGame) Step(now time.Time) game.StepResult {
	for id, bot := range g.bots {
		s := g.World.Serpents[id]
		if s == nil || s.Dead {
			continue
		}
		angle, boost := bot.Decide(now, s, g.World)
		s.Steer(angle, boost)
	}

	dt := game.MaxStep
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
		if dt > game.MaxStep {
			dt = game.MaxStep
		}
		if dt < 0 {
			dt = 0
		}
	}
	g.last = now
	res := g.World.Step(dt)

	for id := range g.bots {
		s := g.World.Serpents[id]
		if s == nil || !s.Dead {
			delete(g.deadSince, id)
			continue
		}
		since, ok := g.deadSince[id]
		if !ok {
			g.deadSince[id] = now
			continue
		}
		if now.Sub(since) >= BotRespawnDelay {
			g.World.AddSerpent(id, game.NewSerpent(s.Name, s.Theme))
			g.bots[id] = &Bot{}
			delete(g.deadSince, id)
		}
	}
	return res
}
