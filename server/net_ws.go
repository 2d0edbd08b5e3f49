package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"serpentarena/game"
	"serpentarena/protocol"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃旧消息（防止阻塞 Tick）
	}
}

// Close 关闭底层连接与发送队列（幂等）
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 读取并分发客户端消息。连接归属于哪个房间由 join 消息决定；
// 换房间时先以 "left" 原因离开旧房间。读泵退出（断线）等价于显式离开。
func (c *ClientConn) readPump(m *RoomManager, playerID PlayerID) {
	defer c.ws.Close()
	var room *Room
	defer func() {
		if room != nil {
			room.RequestLeave(playerID, game.CauseDisconnected)
		}
	}()
	c.ws.SetReadLimit(1 << 20) // 1MB
	_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))

		env, err := protocol.DecodeEnvelope(payload)
		if err != nil {
			// 畸形消息只丢弃本条，不断连接，不进物理层
			if room != nil {
				room.Metrics().IncDecodeFailed()
			}
			Log.Debugf("bad envelope from %s: %v", playerID, err)
			continue
		}

		switch env.T {
		case protocol.MsgJoin:
			j, err := protocol.DecodePayload[protocol.Join](env)
			if err != nil || j.RoomCode == "" {
				Log.Debugf("bad join from %s: %v", playerID, err)
				continue
			}
			if room != nil {
				room.RequestLeave(playerID, game.CauseLeft)
			}
			room = m.GetOrCreateRoom(j.RoomCode)
			room.RequestJoin(playerID, j.DisplayName, j.Theme, c)
		case protocol.MsgInput:
			if room == nil {
				continue
			}
			in, err := protocol.DecodePayload[protocol.Input](env)
			if err != nil {
				room.Metrics().IncDecodeFailed()
				continue
			}
			room.OnInput(Input{
				PlayerID:    playerID,
				TargetAngle: in.TargetAngle,
				IsBoosting:  in.IsBoosting,
				Seq:         in.Seq,
			})
		case protocol.MsgRespawn:
			if room == nil {
				continue
			}
			var theme *protocol.Theme
			if len(env.P) > 0 {
				if rq, err := protocol.DecodePayload[protocol.Respawn](env); err == nil {
					theme = rq.Theme
				}
			}
			room.RequestRespawn(playerID, theme)
		case protocol.MsgChat:
			if room == nil {
				continue
			}
			ch, err := protocol.DecodePayload[protocol.Chat](env)
			if err != nil {
				room.Metrics().IncDecodeFailed()
				continue
			}
			room.RequestChat(playerID, ch.Text)
		default:
			// 未知类型：忽略
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入。房间由随后的 join 消息指定
func HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	playerID := PlayerID(uuid.NewString())
	client := NewClientConn(ws)

	go client.writePump()
	go client.readPump(GetRoomManager(), playerID)
}
