package server

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"serpentarena/game"
	"serpentarena/protocol"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func writeEnvelope(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	b, err := protocol.Encode(typ, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", typ, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// waitSnapshot 持续读消息直到某个快照满足条件（其余类型忽略）
func waitSnapshot(t *testing.T, conn *websocket.Conn, timeout time.Duration, ok func(protocol.Snapshot) bool) protocol.Snapshot {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		env, err := protocol.DecodeEnvelope(payload)
		if err != nil {
			t.Fatalf("server sent undecodable message: %v", err)
		}
		if env.T != protocol.MsgSnapshot {
			continue
		}
		snap, err := protocol.DecodePayload[protocol.Snapshot](env)
		if err != nil {
			t.Fatalf("snapshot decode: %v", err)
		}
		if ok(snap) {
			return snap
		}
	}
	t.Fatalf("no matching snapshot within %v", timeout)
	return protocol.Snapshot{}
}

func findByName(snap protocol.Snapshot, name string) (string, protocol.PlayerState, bool) {
	for id, ps := range snap.Players {
		if ps.DisplayName == name {
			return id, ps, true
		}
	}
	return "", protocol.PlayerState{}, false
}

func TestWebSocketJoinSteerAndRoomLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(HandleWS))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	code := GenerateCode(6)
	writeEnvelope(t, conn, protocol.MsgJoin, protocol.Join{RoomCode: code, DisplayName: "Tester"})

	// 加入后很快能在快照里看到自己
	snap := waitSnapshot(t, conn, 2*time.Second, func(s protocol.Snapshot) bool {
		_, _, ok := findByName(s, "Tester")
		return ok
	})
	_, self, _ := findByName(snap, "Tester")
	if len(snap.Foods) == 0 {
		t.Fatalf("snapshot carries no foods")
	}

	// 朝世界中心转向（离边界最远的安全方向），服务端应把朝向收敛过去
	target := math.Atan2(game.WorldSize/2-self.Serpent.Y, game.WorldSize/2-self.Serpent.X)
	writeEnvelope(t, conn, protocol.MsgInput, protocol.Input{TargetAngle: target, Seq: 1})

	waitSnapshot(t, conn, 2*time.Second, func(s protocol.Snapshot) bool {
		_, ps, ok := findByName(s, "Tester")
		if !ok {
			return false
		}
		return math.Abs(game.NormalizeAngle(ps.Serpent.Angle-target)) < 0.1
	})

	if GetRoomManager().GetRoom(code) == nil {
		t.Fatalf("room should exist while a player is connected")
	}

	// 断线等价于显式离开：最后一个玩家走了，房间销毁
	conn.Close()
	waitFor(t, 2*time.Second, func() bool {
		return GetRoomManager().GetRoom(code) == nil
	})
}

func TestWebSocketTwoClientsSeeEachOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(HandleWS))
	defer srv.Close()

	a := dialWS(t, srv)
	defer a.Close()
	b := dialWS(t, srv)
	defer b.Close()

	code := GenerateCode(6)
	writeEnvelope(t, a, protocol.MsgJoin, protocol.Join{RoomCode: code, DisplayName: "Alice"})
	writeEnvelope(t, b, protocol.MsgJoin, protocol.Join{RoomCode: code, DisplayName: "Bob"})

	waitSnapshot(t, a, 2*time.Second, func(s protocol.Snapshot) bool {
		_, _, hasA := findByName(s, "Alice")
		_, _, hasB := findByName(s, "Bob")
		return hasA && hasB
	})

	// Alice 离开后 Bob 的快照只剩自己，房间保留
	a.Close()
	waitSnapshot(t, b, 2*time.Second, func(s protocol.Snapshot) bool {
		_, _, hasA := findByName(s, "Alice")
		_, _, hasB := findByName(s, "Bob")
		return !hasA && hasB
	})
	if GetRoomManager().GetRoom(code) == nil {
		t.Fatalf("room must survive while Bob is still in it")
	}
}
