package server

import "serpentarena/protocol"

// Input 客户端转向意图。只写进待处理通道，由下一次 Tick 消费，
// 输入处理永远不直接动位置或碰撞逻辑。
type Input struct {
	PlayerID    PlayerID
	TargetAngle float64
	IsBoosting  bool
	Seq         int64 // 客户端本地序列号，用于丢弃乱序旧输入
}

// 房间控制消息：加入 / 离开 / 重生 / 聊天，统一在 Tick 线程中处理，
// 避免多协程并发改房间状态。
type ctlKind int

const (
	ctlJoin ctlKind = iota
	ctlLeave
	ctlRespawn
	ctlChat
	ctlConfig
)

type ctlMsg struct {
	kind  ctlKind
	id    PlayerID
	conn  Sink
	name  string
	theme *protocol.Theme
	text  string
	cause string // 离开原因：left / disconnected
	cfg   *roomConfig
}

// roomConfig 热更新载荷，nil 字段表示保持现值
type roomConfig struct {
	maxInputsPerTick *int
	simulateDropProb *float64
	foodTarget       *int
}
