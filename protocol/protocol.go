package protocol

import "encoding/json"

// 消息类型标签。所有消息都包在 Envelope 里走 WebSocket 文本帧，
// 载荷解码失败只丢弃该条消息，绝不把未定义字段带进物理层。
const (
	// client → server
	MsgJoin    = "join"
	MsgInput   = "input"
	MsgRespawn = "respawn"
	MsgChat    = "chat"

	// server → client
	MsgSnapshot = "snapshot"
	MsgDeath    = "death"
	MsgYouDied  = "you-died"
)

// Envelope 带类型标签的信封
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Theme 客户端自选配色
type Theme struct {
	Color     string `json:"color"`
	BodyColor string `json:"bodyColor"`
}

// Join 加入（或创建）房间
type Join struct {
	RoomCode    string `json:"roomCode"`
	DisplayName string `json:"displayName"`
	Theme       *Theme `json:"theme,omitempty"`
}

// Input 最新转向意图。Seq 为客户端本地序列号，用于丢弃乱序旧输入
type Input struct {
	TargetAngle float64 `json:"targetAngle"`
	IsBoosting  bool    `json:"isBoosting"`
	Seq         int64   `json:"seq,omitempty"`
}

// Respawn 死亡后请求新蛇
type Respawn struct {
	Theme *Theme `json:"theme,omitempty"`
}

// Chat 房间内文字消息（入站）
type Chat struct {
	Text string `json:"text"`
}

// Snapshot 每 Tick 广播一次的权威全量状态
type Snapshot struct {
	Players map[string]PlayerState `json:"players"`
	Foods   []FoodState            `json:"foods"`
}

// PlayerState 快照中的单个玩家
type PlayerState struct {
	Serpent     SerpentState `json:"serpent"`
	DisplayName string       `json:"displayName"`
}

// SerpentState 快照中的蛇。轨迹编码为 [x,y] 扁平对并保留一位小数，压缩线上体积
type SerpentState struct {
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Angle     float64      `json:"angle"`
	Speed     float64      `json:"speed"`
	Length    int          `json:"length"`
	Score     int          `json:"score"`
	Boosting  bool         `json:"boosting"`
	Dead      bool         `json:"dead"`
	Trail     [][2]float64 `json:"trail"`
	Color     string       `json:"color"`
	BodyColor string       `json:"bodyColor"`
}

// FoodState 快照中的食物
type FoodState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Value int     `json:"value"`
	Color string  `json:"color"`
	Super bool    `json:"super,omitempty"`
}

// Death 死亡/碎裂事件，带抽样身体节点供观察者直接渲染
type Death struct {
	PlayerID      string       `json:"playerId"`
	DisplayName   string       `json:"displayName"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	Color         string       `json:"color"`
	BodyColor     string       `json:"bodyColor"`
	SegmentCount  int          `json:"segmentCount"`
	BodyPositions [][2]float64 `json:"bodyPositions"`
}

// YouDied 只发给死者本人的通知
type YouDied struct {
	Score    int    `json:"score"`
	KilledBy string `json:"killedBy"`
}

// ChatBroadcast 聊天或系统通知（出站）
type ChatBroadcast struct {
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	IsSystem bool   `json:"isSystem,omitempty"`
}
