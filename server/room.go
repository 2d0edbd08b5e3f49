package server

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"serpentarena/game"
	"serpentarena/protocol"
)

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进。
// 蛇与食物都在 world 里；本结构只负责连接、输入缓冲与广播。
type Room struct {
	Code    string
	OnEmpty func(code string) // 最后一个玩家离开时回调（注册表摘除）

	world   *game.World
	players map[PlayerID]*Player

	inputChan chan Input
	ctlChan   chan ctlMsg

	lastTick time.Time
	tickSeq  int64
	metrics  *RoomMetrics

	// 可热更新配置（/admin/config）。
	// 原子读写：写入只发生在 Tick 线程（handleConfig），HTTP 读取走原子 Load
	maxInputsPerTick int64
	dropProbBits     uint64 // simulateDropProb 的 Float64bits
	foodTarget       int64  // world.FoodTarget 的对外只读镜像

	// 帧内状态
	inputsThisTick map[PlayerID]int
	lastSeq        map[PlayerID]int64

	playerCount   int64 // 原子读写，供注册表跨协程查询人数
	emptied       int32 // 原子读写：最后一个玩家离开时置位，有人加入时清除
	tickerStarted bool
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewRoom 创建房间：空玩家集合、铺满目标数量食物的新世界
func NewRoom(code string) *Room {
	r := &Room{
		Code:             code,
		world:            game.NewWorld(),
		players:          make(map[PlayerID]*Player),
		inputChan:        make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		ctlChan:          make(chan ctlMsg, 64),
		lastTick:         time.Now(),
		metrics:          &RoomMetrics{},
		maxInputsPerTick: 5,
		inputsThisTick:   make(map[PlayerID]int),
		lastSeq:          make(map[PlayerID]int64),
		stop:             make(chan struct{}),
	}
	atomic.StoreInt64(&r.foodTarget, int64(r.world.FoodTarget))
	return r
}

// NumPlayers 当前人数（跨协程安全）
func (r *Room) NumPlayers() int {
	return int(atomic.LoadInt64(&r.playerCount))
}

// Metrics 房间指标（监控接口用）
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// TickSeq 当前 Tick 序号
func (r *Room) TickSeq() int64 { return atomic.LoadInt64(&r.tickSeq) }

// Emptying 房间是否已被最后一个玩家清空、正在等待销毁（跨协程安全）
func (r *Room) Emptying() bool { return atomic.LoadInt32(&r.emptied) == 1 }

// MaxInputsPerTick 每帧每玩家的输入预算
func (r *Room) MaxInputsPerTick() int { return int(atomic.LoadInt64(&r.maxInputsPerTick)) }

// SimulateDropProb 模拟丢包概率
func (r *Room) SimulateDropProb() float64 {
	return math.Float64frombits(atomic.LoadUint64(&r.dropProbBits))
}

// FoodTarget 普通食物目标数量
func (r *Room) FoodTarget() int { return int(atomic.LoadInt64(&r.foodTarget)) }

// OnInput 入站输入（不立即改变状态），等下一次 Tick 处理。
// 不阻塞：输入拥塞时丢弃（由通道容量控制），保证 Tick 准时。
func (r *Room) OnInput(in Input) {
	select {
	case r.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
	}
}

// sendCtl 投递控制消息。房间已停止时丢弃而不是永久阻塞：
// 对已消失房间的操作是静默空操作。
func (r *Room) sendCtl(c ctlMsg) {
	select {
	case r.ctlChan <- c:
	case <-r.stop:
	}
}

// RequestJoin 请求在 Tick 线程中加入玩家
func (r *Room) RequestJoin(id PlayerID, name string, theme *protocol.Theme, conn Sink) {
	r.sendCtl(ctlMsg{kind: ctlJoin, id: id, name: name, theme: theme, conn: conn})
}

// RequestLeave 请求在 Tick 线程中移除玩家（cause: left / disconnected）
func (r *Room) RequestLeave(id PlayerID, cause string) {
	r.sendCtl(ctlMsg{kind: ctlLeave, id: id, cause: cause})
}

// RequestRespawn 请求死亡后重生
func (r *Room) RequestRespawn(id PlayerID, theme *protocol.Theme) {
	r.sendCtl(ctlMsg{kind: ctlRespawn, id: id, theme: theme})
}

// RequestChat 请求广播一条聊天
func (r *Room) RequestChat(id PlayerID, text string) {
	r.sendCtl(ctlMsg{kind: ctlChat, id: id, text: text})
}

// RequestConfig 请求在 Tick 线程中应用配置更新，与其他状态变更走同一条路
func (r *Room) RequestConfig(cfg roomConfig) {
	r.sendCtl(ctlMsg{kind: ctlConfig, cfg: &cfg})
}

// BeginTick 同一 Tick 时间线：重置帧内输入计数
func (r *Room) BeginTick() {
	atomic.AddInt64(&r.tickSeq, 1)
	for k := range r.inputsThisTick {
		delete(r.inputsThisTick, k)
	}
}

// ProcessControl 处理本帧的加入/离开/重生/聊天（非阻塞 drain）
func (r *Room) ProcessControl() {
	for {
		select {
		case c := <-r.ctlChan:
			switch c.kind {
			case ctlJoin:
				r.handleJoin(c)
			case ctlLeave:
				r.handleLeave(c.id, c.cause)
			case ctlRespawn:
				r.handleRespawn(c.id, c.theme)
			case ctlChat:
				r.handleChat(c.id, c.text)
			case ctlConfig:
				r.handleConfig(c.cfg)
			}
		default:
			return
		}
	}
}

// ProcessInputs 处理本帧的所有转向意图（非阻塞 drain）。
// 超出帧内预算、序列号过旧或命中模拟丢包的输入被丢弃并计数。
func (r *Room) ProcessInputs() {
	for {
		select {
		case in := <-r.inputChan:
			s, ok := r.world.Serpents[string(in.PlayerID)]
			if !ok || s.Dead {
				continue // 过期引用：静默忽略
			}
			if r.inputsThisTick[in.PlayerID] >= r.MaxInputsPerTick() {
				r.metrics.IncRateLimited()
				continue
			}
			if in.Seq != 0 && in.Seq <= r.lastSeq[in.PlayerID] {
				r.metrics.IncOldSeqIgnored()
				continue
			}
			if p := r.SimulateDropProb(); p > 0 && rand.Float64() < p {
				r.metrics.IncDropsSimulated()
				continue
			}
			if in.Seq != 0 {
				r.lastSeq[in.PlayerID] = in.Seq
			}
			r.inputsThisTick[in.PlayerID]++
			s.Steer(in.TargetAngle, in.IsBoosting)
			r.metrics.IncAccepted()
		default:
			return
		}
	}
}

// Advance 推进世界一个时间片并广播结果。实际间隔被夹到 MaxStep，
// 进程停顿后不会出现物理爆炸。
func (r *Room) Advance(now time.Time) {
	dt := now.Sub(r.lastTick).Seconds()
	if dt > game.MaxStep {
		dt = game.MaxStep
	}
	if dt < 0 {
		dt = 0
	}
	r.lastTick = now

	res := r.world.Step(dt)
	r.metrics.AddFoodsEaten(res.FoodsEaten)
	r.publishDeaths(res.Deaths, true)
	r.BroadcastSnapshot()
}

// publishDeaths 把死亡事件翻译成广播：death 事件 + 系统聊天，
// withYouDied 时再给死者单发 you-died。
func (r *Room) publishDeaths(deaths []game.DeathEvent, withYouDied bool) {
	if len(deaths) == 0 {
		return
	}
	r.metrics.AddDeaths(len(deaths))
	for _, ev := range deaths {
		r.broadcast(protocol.MsgDeath, deathPayload(ev))
		r.systemChat(deathNotice(ev))
		Log.Infof("death: room=%s player=%s cause=%s by=%q score=%d",
			r.Code, ev.Name, ev.Cause, ev.KillerLabel, ev.Score)
		if withYouDied {
			if p, ok := r.players[PlayerID(ev.PlayerID)]; ok {
				r.sendTo(p, protocol.MsgYouDied, protocol.YouDied{
					Score:    ev.Score,
					KilledBy: ev.KillerLabel,
				})
			}
		}
	}
}

func (r *Room) handleJoin(c ctlMsg) {
	theme := themeFrom(c.theme)
	name := c.name
	if name == "" {
		name = fmt.Sprintf("Serpent-%d", len(r.players)+1)
	}
	r.players[c.id] = &Player{ID: c.id, Name: name, Conn: c.conn}
	atomic.StoreInt64(&r.playerCount, int64(len(r.players)))
	// 同一次控制排空里"清空后又有人进来"的房间不能被销毁
	atomic.StoreInt32(&r.emptied, 0)
	r.world.AddSerpent(string(c.id), game.NewSerpent(name, theme))
	r.systemChat(name + " joined the room")
	Log.Infof("join: room=%s player=%s id=%s players=%d", r.Code, name, c.id, len(r.players))
}

// handleLeave 离开与断线走同一条掉落/通知路径。
// 对已不存在的玩家是空操作。
func (r *Room) handleLeave(id PlayerID, cause string) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	ev := r.world.Kill(string(id), cause, "")
	if ev != nil {
		// 存活状态下离开：掉落 + 广播，与死亡一致，但不发 you-died
		r.publishDeaths([]game.DeathEvent{*ev}, false)
	}
	r.world.RemoveSerpent(string(id))
	delete(r.players, id)
	delete(r.lastSeq, id)
	atomic.StoreInt64(&r.playerCount, int64(len(r.players)))
	if p.Conn != nil && cause == game.CauseDisconnected {
		p.Conn.Close()
	}
	if ev == nil {
		// 死着离开：掉落早已发生，只补一条系统通知
		r.systemChat(p.Name + " " + leaveNotice(cause))
	}
	Log.Infof("leave: room=%s player=%s cause=%s players=%d", r.Code, p.Name, cause, len(r.players))
	if len(r.players) == 0 {
		atomic.StoreInt32(&r.emptied, 1)
	}
}

// handleConfig 在 Tick 线程里应用热更新，HTTP 协程绝不直接碰房间状态
func (r *Room) handleConfig(cfg *roomConfig) {
	if cfg.maxInputsPerTick != nil {
		atomic.StoreInt64(&r.maxInputsPerTick, int64(*cfg.maxInputsPerTick))
	}
	if cfg.simulateDropProb != nil {
		atomic.StoreUint64(&r.dropProbBits, math.Float64bits(*cfg.simulateDropProb))
	}
	if cfg.foodTarget != nil {
		r.world.FoodTarget = *cfg.foodTarget
		atomic.StoreInt64(&r.foodTarget, int64(*cfg.foodTarget))
	}
	Log.Infof("config updated: room=%s maxInputsPerTick=%d drop=%.2f foodTarget=%d",
		r.Code, r.MaxInputsPerTick(), r.SimulateDropProb(), r.FoodTarget())
}

// handleRespawn 用一条全新的蛇整体替换引用（新位置、清零历史与得分），
// 不在旧对象上改字段；配色沿用旧蛇，除非客户端重新指定。
func (r *Room) handleRespawn(id PlayerID, theme *protocol.Theme) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	old, ok := r.world.Serpents[string(id)]
	if !ok || !old.Dead {
		return // 活着不给重生
	}
	t := old.Theme
	if theme != nil {
		t = themeFrom(theme)
	}
	r.world.AddSerpent(string(id), game.NewSerpent(p.Name, t))
	Log.Infof("respawn: room=%s player=%s", r.Code, p.Name)
}

func (r *Room) handleChat(id PlayerID, text string) {
	p, ok := r.players[id]
	if !ok || text == "" {
		return
	}
	r.broadcast(protocol.MsgChat, protocol.ChatBroadcast{Sender: p.Name, Text: text})
}

// BroadcastSnapshot 将当前世界全量状态广播给所有玩家（文本 JSON）
func (r *Room) BroadcastSnapshot() {
	r.broadcast(protocol.MsgSnapshot, r.buildSnapshot())
}

func (r *Room) buildSnapshot() protocol.Snapshot {
	snap := protocol.Snapshot{
		Players: make(map[string]protocol.PlayerState, len(r.players)),
		Foods:   make([]protocol.FoodState, 0, len(r.world.Foods)),
	}
	for id, p := range r.players {
		s, ok := r.world.Serpents[string(id)]
		if !ok {
			continue
		}
		snap.Players[string(id)] = protocol.PlayerState{
			DisplayName: p.Name,
			Serpent:     serpentState(s),
		}
	}
	for _, f := range r.world.Foods {
		snap.Foods = append(snap.Foods, protocol.FoodState{
			ID:    f.ID,
			X:     roundTo1(f.Pos.X),
			Y:     roundTo1(f.Pos.Y),
			Size:  f.Size,
			Value: f.Value,
			Color: f.Color,
			Super: f.Super,
		})
	}
	return snap
}

func (r *Room) systemChat(text string) {
	r.broadcast(protocol.MsgChat, protocol.ChatBroadcast{Sender: "system", Text: text, IsSystem: true})
}

func (r *Room) broadcast(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", t, err)
		return
	}
	for _, p := range r.players {
		if p.Conn != nil {
			p.Conn.Enqueue(b)
		}
	}
}

func (r *Room) sendTo(p *Player, t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", t, err)
		return
	}
	if p.Conn != nil {
		p.Conn.Enqueue(b)
	}
}

func serpentState(s *game.Serpent) protocol.SerpentState {
	trail := make([][2]float64, len(s.Trail))
	for i, p := range s.Trail {
		trail[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
	}
	return protocol.SerpentState{
		X:         roundTo1(s.Head.X),
		Y:         roundTo1(s.Head.Y),
		Angle:     s.Angle,
		Speed:     s.Speed,
		Length:    s.Length,
		Score:     s.Score,
		Boosting:  s.Boosting,
		Dead:      s.Dead,
		Trail:     trail,
		Color:     s.Theme.Color,
		BodyColor: s.Theme.BodyColor,
	}
}

func deathPayload(ev game.DeathEvent) protocol.Death {
	body := make([][2]float64, len(ev.BodyPositions))
	for i, p := range ev.BodyPositions {
		body[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
	}
	return protocol.Death{
		PlayerID:      ev.PlayerID,
		DisplayName:   ev.Name,
		X:             roundTo1(ev.At.X),
		Y:             roundTo1(ev.At.Y),
		Color:         ev.Color,
		BodyColor:     ev.BodyColor,
		SegmentCount:  ev.SegmentCount,
		BodyPositions: body,
	}
}

func deathNotice(ev game.DeathEvent) string {
	switch ev.Cause {
	case game.CauseWorldBorder:
		return ev.Name + " hit the world border"
	case game.CauseCollision:
		return ev.Name + " was eliminated by " + ev.KillerLabel
	case game.CauseLeft, game.CauseDisconnected:
		return ev.Name + " " + leaveNotice(ev.Cause)
	default:
		return ev.Name + " died"
	}
}

func leaveNotice(cause string) string {
	if cause == game.CauseLeft {
		return "left the room"
	}
	return "disconnected"
}

func themeFrom(t *protocol.Theme) game.Theme {
	if t == nil {
		return game.Theme{}
	}
	return game.Theme{Color: t.Color, BodyColor: t.BodyColor}
}

// roundTo1 保留一位小数，压缩线上体积
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
