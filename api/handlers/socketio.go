package handlers

import (
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/models"
)

// SocketServer wraps the Socket.IO server and exposes the per-user room
// publish used by the notification dispatcher
type SocketServer struct {
	server *socketio.Server
}

// userRoom is the per-recipient pub/sub scope a client joins after
// connecting
func userRoom(userID string) string {
	return "user:" + userID
}

// NewSocketServer initializes the Socket.IO server and starts serving
func NewSocketServer() *SocketServer {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			polling.Default,
			websocket.Default,
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		zap.S().Infow("socket.io client connected", "id", s.ID())
		return nil
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		zap.S().Errorw("socket.io error", "error", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		zap.S().Infow("socket.io client disconnected", "id", s.ID(), "reason", reason)
	})

	server.OnEvent("/", "join", func(s socketio.Conn, userID string) {
		if userID == "" {
			zap.S().Error("no userId provided for join")
			return
		}
		s.Join(userRoom(userID))
		zap.S().Infow("client joined notification room", "userId", userID)
	})

	server.OnEvent("/", "leave", func(s socketio.Conn, userID string) {
		if userID != "" {
			s.Leave(userRoom(userID))
		}
	})

	go func() {
		if err := server.Serve(); err != nil {
			zap.S().Errorw("socket.io server error", "error", err)
		}
	}()

	return &SocketServer{server: server}
}

// Publish emits a notification event scoped to the recipient's room
func (ss *SocketServer) Publish(userID string, notification models.Notification) {
	ss.server.BroadcastToRoom("/", userRoom(userID), "notification", notification)
}

// Server returns the underlying Socket.IO server for route registration
func (ss *SocketServer) Server() *socketio.Server {
	return ss.server
}

// Close shuts the Socket.IO server down
func (ss *SocketServer) Close() error {
	return ss.server.Close()
}
