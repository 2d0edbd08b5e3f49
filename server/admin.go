package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供房间配置的读取与更新（热更新基本规则）
// GET /admin/config?room=ABCD  返回当前配置
// POST /admin/config?room=ABCD 以 JSON 载荷更新部分字段
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	rm := GetRoomManager()
	room := rm.GetRoom(roomID)
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	type cfg struct {
		MaxInputsPerTick *int     `json:"maxInputsPerTick,omitempty"`
		SimulateDropProb *float64 `json:"simulateDropProb,omitempty"`
		FoodTarget       *int     `json:"foodTarget,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		maxInputs := room.MaxInputsPerTick()
		dropProb := room.SimulateDropProb()
		foodTarget := room.FoodTarget()
		cur := cfg{
			MaxInputsPerTick: &maxInputs,
			SimulateDropProb: &dropProb,
			FoodTarget:       &foodTarget,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cur)
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		// 更新排队到 Tick 线程应用，HTTP 协程不直接改房间状态
		room.RequestConfig(roomConfig{
			maxInputsPerTick: body.MaxInputsPerTick,
			simulateDropProb: body.SimulateDropProb,
			foodTarget:       body.FoodTarget,
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=ABCD
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	rm := GetRoomManager()
	room := rm.GetRoom(roomID)
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"players": room.NumPlayers(),
		"metrics": room.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleRooms 输出当前活跃房间列表
// GET /rooms
func HandleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GetRoomManager().ListRooms())
}
