package client

import (
	"time"

	"serpentarena/game"
	"serpentarena/protocol"
)

// 预测校正参数
const (
	// SnapDistance 以上视为传送级失步（重生、长时间卡顿），直接替换
	SnapDistance = 250.0
	// AgreeDistance 以内视为预测与服务端一致，不做任何校正
	AgreeDistance = 4.0
	// CorrectFraction 平滑校正：每收到一次快照，向服务端位置靠近这个比例（指数收敛）
	CorrectFraction = 0.15

	// InputSendInterval 输入上行的限频间隔，与渲染/物理频率解耦
	InputSendInterval = 30 * time.Millisecond
)

// RemotePlayer 其他玩家的最近已知状态：完全取自快照，本协议不做预测或平滑
type RemotePlayer struct {
	Name    string
	Serpent game.Serpent
}

// LocalView 客户端本地视图。只有自己那条蛇持有预测副本；
// 其他玩家与食物永远是服务端快照的只读镜像。
type LocalView struct {
	SelfID string
	Self   *game.Serpent // 本地预测副本（只预测位置与朝向）
	Others map[string]RemotePlayer
	Foods  []game.Food
}

// NewLocalView 创建空视图，首个快照到达时初始化 Self
func NewLocalView(selfID string) *LocalView {
	return &LocalView{
		SelfID: selfID,
		Others: make(map[string]RemotePlayer),
	}
}

// SetInput 记录本地输入（立即作用于预测副本，这正是延迟掩藏的来源）
func (v *LocalView) SetInput(targetAngle float64, boosting bool) {
	if v.Self != nil {
		v.Self.Steer(targetAngle, boosting)
	}
}

// Predict 两次快照之间继续用与服务端完全相同的积分公式推进本地蛇
func (v *LocalView) Predict(dt float64) {
	if v.Self == nil || v.Self.Dead {
		return
	}
	if dt > game.MaxStep {
		dt = game.MaxStep
	}
	v.Self.Integrate(dt)
}

// ApplySnapshot 把权威快照并入本地状态。
// 自己的蛇：长度/速度/死亡/轨迹/得分原样采纳（这些不做预测），
// 头部位置按距离分档：大失步直接替换，中等失步平滑靠近（朝向
// 刻意不强制校正，避免与正在进行的转向输入打架），小差异视为一致。
func (v *LocalView) ApplySnapshot(snap protocol.Snapshot) {
	if ps, ok := snap.Players[v.SelfID]; ok {
		v.applySelf(ps)
	}

	others := make(map[string]RemotePlayer, len(snap.Players))
	for id, ps := range snap.Players {
		if id == v.SelfID {
			continue
		}
		others[id] = RemotePlayer{Name: ps.DisplayName, Serpent: serpentFromState(ps)}
	}
	v.Others = others

	foods := make([]game.Food, 0, len(snap.Foods))
	for _, f := range snap.Foods {
		foods = append(foods, game.Food{
			ID:    f.ID,
			Pos:   game.Point{X: f.X, Y: f.Y},
			Color: f.Color,
			Size:  f.Size,
			Value: f.Value,
			Super: f.Super,
		})
	}
	v.Foods = foods
}

func (v *LocalView) applySelf(ps protocol.PlayerState) {
	server := serpentFromState(ps)
	if v.Self == nil {
		v.Self = &server
		return
	}

	// 这些字段不做本地预测，服务端说了算
	v.Self.Length = server.Length
	v.Self.Speed = server.Speed
	v.Self.Dead = server.Dead
	v.Self.Score = server.Score
	v.Self.Trail = server.Trail
	v.Self.Theme = server.Theme
	v.Self.Name = server.Name

	d := game.Dist(v.Self.Head, server.Head)
	switch {
	case d > SnapDistance:
		// 传送级失步：位置与朝向一并替换
		v.Self.Head = server.Head
		v.Self.Angle = server.Angle
	case d > AgreeDistance:
		v.Self.Head.X += (server.Head.X - v.Self.Head.X) * CorrectFraction
		v.Self.Head.Y += (server.Head.Y - v.Self.Head.Y) * CorrectFraction
	default:
		// 视为一致
	}
}

func serpentFromState(ps protocol.PlayerState) game.Serpent {
	st := ps.Serpent
	trail := make([]game.Point, len(st.Trail))
	for i, p := range st.Trail {
		trail[i] = game.Point{X: p[0], Y: p[1]}
	}
	return game.Serpent{
		Name:        ps.DisplayName,
		Head:        game.Point{X: st.X, Y: st.Y},
		Angle:       st.Angle,
		TargetAngle: st.Angle,
		Trail:       trail,
		Length:      st.Length,
		Speed:       st.Speed,
		Score:       st.Score,
		Boosting:    st.Boosting,
		Dead:        st.Dead,
		Theme:       game.Theme{Color: st.Color, BodyColor: st.BodyColor},
	}
}

// InputPacer 把本地输入限频成 ~30ms 一条的上行消息，并编好递增序列号
type InputPacer struct {
	Interval time.Duration
	last     time.Time
	seq      int64
}

// Next 到发送时机则返回待发输入与 true，否则返回 false
func (p *InputPacer) Next(now time.Time, targetAngle float64, boosting bool) (protocol.Input, bool) {
	interval := p.Interval
	if interval <= 0 {
		interval = InputSendInterval
	}
	if !p.last.IsZero() && now.Sub(p.last) < interval {
		return protocol.Input{}, false
	}
	p.last = now
	p.seq++
	return protocol.Input{TargetAngle: targetAngle, IsBoosting: boosting, Seq: p.seq}, true
}
