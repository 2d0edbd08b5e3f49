package server

import "time"

const (
	// TicksPerSecond 世界推进频率（20 TPS）
	TicksPerSecond = 20
)

var tickInterval = time.Duration(1000/TicksPerSecond) * time.Millisecond // 50ms

// StartTicker 启动房间的 Tick 循环（单协程推进世界）。
// 每个房间独立一个协程，互不共享状态，慢房间不会拖慢别的房间。
func (r *Room) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				// 核心循环：帧内状态复位 → 控制消息 → 输入 → 推进并广播
				start := time.Now()
				r.BeginTick()
				r.ProcessControl()
				r.ProcessInputs()
				r.Advance(start)
				r.metrics.AddTick(time.Since(start).Nanoseconds())
				// 销毁前在 Tick 协程上复核玩家集合确实为空
				if r.Emptying() && len(r.players) == 0 {
					// 最后一个玩家已离开：通知注册表销毁本房间
					if r.OnEmpty != nil {
						r.OnEmpty(r.Code)
					}
					return
				}
			}
		}
	}()
}

// StopTicker 停掉 Tick 协程（幂等）
func (r *Room) StopTicker() {
	r.stopOnce.Do(func() { close(r.stop) })
}
