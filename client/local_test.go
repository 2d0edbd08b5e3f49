package client

import (
	"testing"
	"time"

	"serpentarena/game"
)

func TestLocalGameRunsPlayerAndBots(t *testing.T) {
	g := NewLocalGame("Solo", 3)
	if g.Player() == nil {
		t.Fatalf("player serpent missing")
	}
	if len(g.World.Serpents) != 4 {
		t.Fatalf("expected player + 3 bots, got %d serpents", len(g.World.Serpents))
	}

	now := time.Now()
	for i := 0; i < 10; i++ {
		now = now.Add(50 * time.Millisecond)
		g.Step(now)
	}
	// 机器人输入与真实输入同形：经过若干帧，它们的目标角已被物理层消费
	for id := range g.bots {
		if g.World.Serpents[id] == nil {
			t.Fatalf("bot %s vanished", id)
		}
	}
}

func TestLocalGameRespawnsBotFresh(t *testing.T) {
	g := NewLocalGame("Solo", 1)
	now := time.Now()
	g.Step(now)

	old := g.World.Serpents["bot-1"]
	g.World.Kill("bot-1", game.CauseCollision, "Solo")

	g.Step(now.Add(50 * time.Millisecond)) // 记录死亡时刻
	g.Step(now.Add(BotRespawnDelay + 100*time.Millisecond))

	fresh := g.World.Serpents["bot-1"]
	if fresh == old {
		t.Fatalf("bot respawn must allocate a fresh serpent")
	}
	if fresh.Dead {
		t.Fatalf("respawned bot still dead")
	}
	if fresh.Name != old.Name || fresh.Theme != old.Theme {
		t.Fatalf("respawn should keep name and theme")
	}
}

func TestLocalPlayerRespawnKeepsTheme(t *testing.T) {
	g := NewLocalGame("Solo", 0)
	old := g.Player()
	theme := old.Theme

	g.RespawnPlayer() // 活着时是空操作
	if g.Player() != old {
		t.Fatalf("respawn while alive must be a no-op")
	}

	g.World.Kill(g.PlayerID, game.CauseWorldBorder, game.BorderLabel)
	g.RespawnPlayer()
	fresh := g.Player()
	if fresh == old || fresh.Dead {
		t.Fatalf("player respawn did not allocate a fresh serpent")
	}
	if fresh.Theme != theme {
		t.Fatalf("player theme not preserved")
	}
}
