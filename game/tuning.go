package game

// 世界与蛇的基础参数（服务端与客户端预测共用同一套数值）
const (
	// 世界为 [0, WorldSize] 的正方形，越界即死
	WorldSize   = 3000.0
	SpawnMargin = 200.0 // 出生点距离边界的最小距离
	FoodInset   = 50.0  // 随机食物距离边界的内缩量

	// 物理积分
	MaxStep      = 0.1 // 单次积分的 dt 上限（秒），防止进程停顿后位置爆炸
	TurnRate     = 8.0 // 朝向收敛速率：每秒按最短弧差的倍数逼近目标角
	BaseSpeed    = 150.0
	SpeedPerFood = 1.0 // 每吃一个食物的基础速度增量
	BoostFactor  = 2.0 // 加速时瞬时速度倍率（不改变基础速度）

	// 轨迹采样：头部每移动 RecordDist 记录一个轨迹点（按距离采样，与帧率无关）
	RecordDist = 8.0
	// 身体节点在轨迹上的采样步长：第 i 节取轨迹下标 i*SegmentSpacing
	SegmentSpacing = 5
	// 轨迹保留上限 = Length*SegmentSpacing + TrailSlack
	TrailSlack = 20

	// 碰撞
	HeadRadius = 10.0
	KillRadius = 16.0

	// 食物经济
	FoodTarget       = 150 // 每房间普通食物目标数量
	FoodSpawnPerTick = 60  // 每 Tick 回补普通食物的上限
	FoodValue        = 1
	SuperFoodValue   = 5
	DeathScatter     = 20.0 // 死亡掉落在身体节点附近的散布半径
)

// 普通食物与超级食物（死亡掉落）的配色，超级食物在视觉上需区分
var foodColors = []string{
	"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#ff922b",
	"#cc5de8", "#20c997", "#f06595", "#74c0fc", "#a9e34b",
}

var superFoodColors = []string{
	"#8e44ad", "#9b59b6", "#6c3483", "#a569bd", "#7d3c98",
}

// 默认蛇身配色方案
var DefaultThemes = []Theme{
	{Color: "#e74c3c", BodyColor: "#c0392b"},
	{Color: "#3498db", BodyColor: "#2980b9"},
	{Color: "#2ecc71", BodyColor: "#27ae60"},
	{Color: "#f39c12", BodyColor: "#d68910"},
	{Color: "#9b59b6", BodyColor: "#8e44ad"},
	{Color: "#1abc9c", BodyColor: "#16a085"},
	{Color: "#e67e22", BodyColor: "#ca6f1e"},
	{Color: "#e91e63", BodyColor: "#ad1457"},
}
