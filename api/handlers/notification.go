package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

// Publisher pushes a notification to a recipient's live channel.
// Delivery is best-effort: a publish failure never affects the durable
// record.
type Publisher interface {
	Publish(userID string, notification models.Notification)
}

// NotifierService records a notification and delivers it live if the
// recipient is connected
type NotifierService interface {
	Notify(ctx context.Context, userID, title, message, notificationType, relatedID string) (*models.Notification, error)
}

// Notifier persists notifications first, then publishes to every
// registered live channel. Persistence precedes delivery; there is no
// retry and no delivery acknowledgement, the durable record is what
// clients reconcile against on reconnect or poll.
type Notifier struct {
	NDB        databases.NotificationDatabase
	Publishers []Publisher
}

// Notify validates, persists and then best-effort publishes a
// notification to the recipient
func (n *Notifier) Notify(ctx context.Context, userID, title, message, notificationType, relatedID string) (*models.Notification, error) {
	if userID == "" || title == "" || message == "" {
		return nil, errors.New("missing required notification fields")
	}

	notification := models.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           notificationType,
		RelatedID:      relatedID,
		IsRead:         false,
		CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := n.NDB.InsertOne(ctx, notification); err != nil {
		return nil, err
	}

	for _, p := range n.Publishers {
		p.Publish(userID, notification)
	}

	return &notification, nil
}

// Notification handles notification list and read requests
type Notification struct {
	DB databases.NotificationDatabase
}

// NotificationsHandler returns the caller's latest 20 notifications
func (nh Notification) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notifications, err := nh.DB.Find(ctx, bson.M{"userId": identity.UserID},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(20))
	if err != nil {
		config.ErrorStatus("Failed to fetch notifications", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(notifications, http.StatusOK, w)
}

// MarkNotificationReadHandler flips isRead to true for a notification
// owned by the caller. Idempotent per notification id.
func (nh Notification) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	notificationID := mux.Vars(r)["notification_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := nh.DB.UpdateOne(ctx,
		bson.M{"notificationId": notificationID, "userId": identity.UserID},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		config.ErrorStatus("Failed to update notification", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("Notification not found", http.StatusNotFound, w, nil)
		return
	}

	notification, err := nh.DB.FindOne(ctx, bson.M{"notificationId": notificationID})
	if err != nil {
		config.ErrorStatus("Failed to update notification", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(notification, http.StatusOK, w)
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHub stores connected users (userId -> *websocket.Conn)
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewNotificationHub creates an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// ServeWS upgrades the connection and registers it under the caller's
// userId until the socket closes
func (hub *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	hub.mutex.Lock()
	hub.clients[userID] = conn
	hub.mutex.Unlock()
	zap.S().Infow("user connected to notification feed", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		hub.mutex.Lock()
		delete(hub.clients, userID)
		hub.mutex.Unlock()
		zap.S().Infow("user disconnected from notification feed", "userId", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// Publish pushes a notification to the recipient if a connection is
// registered. Failed writes drop the connection.
func (hub *NotificationHub) Publish(userID string, notification models.Notification) {
	hub.mutex.Lock()
	conn, exists := hub.clients[userID]
	hub.mutex.Unlock()

	if !exists {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": "notification",
		"data":  notification,
	})
	if err != nil {
		zap.S().Errorw("error sending notification", "userId", userID, "error", err)
		hub.mutex.Lock()
		delete(hub.clients, userID)
		hub.mutex.Unlock()
		conn.Close()
	}
}
