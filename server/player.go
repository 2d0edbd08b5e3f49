package server

// PlayerID 表示一条连接在房间内的唯一标识
type PlayerID string

// Sink 房间向客户端推送消息的出口。抽成接口便于测试时用内存实现替代
// 真实 WebSocket 连接。
type Sink interface {
	Enqueue(b []byte)
	Close()
}

// Player 房间内的参与者：连接出口 + 展示名。蛇的权威状态在 game.World 里，
// 以同一 PlayerID 为键。
type Player struct {
	ID   PlayerID
	Name string
	Conn Sink
}
