package game

// 死亡原因
const (
	CauseWorldBorder  = "world-border"
	CauseCollision    = "collision"
	CauseLeft         = "left"
	CauseDisconnected = "disconnected"
)

// BorderLabel 撞墙死亡时记在击杀者位置上的标签
const BorderLabel = "World Border"

// DeathEvent 一次死亡的完整描述：位置、配色与抽样身体节点都带上，
// 观察者直接用它渲染碎裂效果，不需要重算。
type DeathEvent struct {
	PlayerID      string
	Name          string
	At            Point
	Color         string
	BodyColor     string
	SegmentCount  int
	BodyPositions []Point
	Cause         string
	KillerLabel   string
	Score         int
}

// StepResult 一次 Tick 的产出
type StepResult struct {
	Deaths     []DeathEvent
	FoodsEaten int
}
