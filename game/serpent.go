package game

import (
	"math"
	"math/rand"
)

// Theme 蛇的配色（头部与身体），由客户端选择或取默认
type Theme struct {
	Color     string
	BodyColor string
}

// Serpent 玩家（或离线模式下的机器人）控制的蛇。
// 服务端持有权威实例；客户端仅对自己那条持有预测副本（见 client 包）。
type Serpent struct {
	Name string

	Head        Point
	Angle       float64 // 当前朝向（弧度）
	TargetAngle float64 // 输入期望的朝向
	Boosting    bool

	// Trail 按距离采样的头部历史轨迹，最新在前。
	// 它既是渲染分节的来源，也是碰撞几何（按 SegmentSpacing 抽样）。
	Trail []Point

	Length int     // 逻辑身体节数，每吃一个食物 +1
	Speed  float64 // 基础线速度，加速只作用于瞬时速度
	Score  int
	Dead   bool

	Theme Theme
}

// NewSerpent 在世界内随机出生点创建一条新蛇（距边界至少 SpawnMargin）
func NewSerpent(name string, theme Theme) *Serpent {
	head := Point{
		X: SpawnMargin + rand.Float64()*(WorldSize-2*SpawnMargin),
		Y: SpawnMargin + rand.Float64()*(WorldSize-2*SpawnMargin),
	}
	angle := rand.Float64()*2*math.Pi - math.Pi
	if theme.Color == "" {
		theme = DefaultThemes[rand.Intn(len(DefaultThemes))]
	}
	return &Serpent{
		Name:        name,
		Head:        head,
		Angle:       angle,
		TargetAngle: angle,
		Trail:       []Point{head},
		Length:      1,
		Speed:       BaseSpeed,
		Theme:       theme,
	}
}

// Steer 记录最新输入意图。非法数值（NaN/Inf）直接忽略而不是报错：
// 这是尽力而为的实时输入流，不是事务接口。
func (s *Serpent) Steer(targetAngle float64, boosting bool) {
	if !math.IsNaN(targetAngle) && !math.IsInf(targetAngle, 0) {
		s.TargetAngle = NormalizeAngle(targetAngle)
	}
	s.Boosting = boosting
}

// Integrate 推进一步物理：朝向沿最短弧向 TargetAngle 收敛，位置沿朝向前进。
// 客户端预测必须使用与服务端完全相同的这条公式。
func (s *Serpent) Integrate(dt float64) {
	maxDelta := math.Abs(NormalizeAngle(s.TargetAngle-s.Angle)) * TurnRate * dt
	s.Angle = TurnToward(s.Angle, s.TargetAngle, maxDelta)

	v := s.Speed
	if s.Boosting {
		v *= BoostFactor
	}
	s.Head.X += math.Cos(s.Angle) * v * dt
	s.Head.Y += math.Sin(s.Angle) * v * dt

	s.sampleTrail()
}

// sampleTrail 头部相对上一个记录点移动了至少 RecordDist 才记录新轨迹点，
// 然后裁掉任何身体节都引用不到的旧历史。
func (s *Serpent) sampleTrail() {
	if len(s.Trail) == 0 || Dist(s.Head, s.Trail[0]) >= RecordDist {
		s.Trail = append([]Point{s.Head}, s.Trail...)
	}
	max := s.Length*SegmentSpacing + TrailSlack
	if len(s.Trail) > max {
		s.Trail = s.Trail[:max]
	}
}

// Eat 吃掉一个食物：得分按价值增加，身体 +1 节，基础速度小幅增加
func (s *Serpent) Eat(f *Food) {
	s.Score += f.Value
	s.Length++
	s.Speed += SpeedPerFood
}

// SampledBody 按步长抽样的身体节点位置，最多 Length 个。
// 碰撞检测与死亡掉落都使用这份抽样，而不是每一个轨迹点。
func (s *Serpent) SampledBody() []Point {
	n := len(s.Trail) / SegmentSpacing
	if n > s.Length {
		n = s.Length
	}
	body := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		body = append(body, s.Trail[i*SegmentSpacing])
	}
	return body
}
