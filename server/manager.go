package server

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// RoomManager 管理多个房间的生命周期：首个玩家加入时创建，
// 最后一个玩家离开时销毁。不允许空房间常驻。
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// GetRoomManager 单例房间管理器（HTTP 层入口用；核心逻辑都在 RoomManager 值上）
func GetRoomManager() *RoomManager {
	once.Do(func() {
		defaultManager = NewRoomManager()
	})
	return defaultManager
}

// NewRoomManager 创建独立的管理器实例（测试用）
func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room)}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick。
// 命中"已清空、等待销毁"的房间时就地换成新房间：它的 Tick 协程
// 可能已经退出，再往里投递加入请求没有任何消费者。
func (m *RoomManager) GetOrCreateRoom(code string) *Room {
	if code == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	if ok && r.Emptying() {
		r.StopTicker()
		ok = false
	}
	if !ok {
		r = NewRoom(code)
		room := r
		r.OnEmpty = func(code string) { m.removeRoom(code, room) }
		m.rooms[code] = r
		r.StartTicker()
		Log.Infof("room created: %s", code)
	}
	return r
}

// GetRoom 只查不建（监控接口用，避免查询顺手创建空房间）
func (m *RoomManager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// removeRoom 从注册表摘除并停掉房间（最后一个玩家离开时由房间回调触发）。
// 按引用比对：同名房间可能已被 GetOrCreateRoom 换成新的一间，不能误删
func (m *RoomManager) removeRoom(code string, r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.StopTicker()
	if cur, ok := m.rooms[code]; ok && cur == r {
		delete(m.rooms, code)
		Log.Infof("room destroyed: %s", code)
	}
}

// RoomInfo 房间列表条目
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
}

// ListRooms 返回当前活跃房间及人数
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Players: r.NumPlayers()})
	}
	return out
}

// 去掉易混淆字符的房间码字母表
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode 生成 n 位随机房间码
func GenerateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
