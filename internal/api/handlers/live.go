package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/amaumene/browsefilms/internal/session"
	"github.com/amaumene/browsefilms/internal/wishlist"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Ping period keeping idle connections alive through proxies
	pingPeriod = 50 * time.Second
)

// CountMessage is pushed to the client whenever the wishlist size changes
type CountMessage struct {
	Count int `json:"count"`
}

// LiveHandler streams wishlist count updates over a websocket
type LiveHandler struct {
	logger *logrus.Logger
}

// NewLiveHandler creates a new live handler
func NewLiveHandler(logger *logrus.Logger) *LiveHandler {
	return &LiveHandler{logger: logger}
}

// ServeHTTP upgrades the connection and pushes counts until it closes
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	// the server's read/write timeouts would otherwise end the stream
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// the client never sends; CloseRead handles control frames
	ctx := conn.CloseRead(r.Context())

	// coalesce: only the latest count matters
	updates := make(chan int, 1)
	push := func(n int) {
		select {
		case updates <- n:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- n:
			default:
			}
		}
	}

	unsubscribe := wishlist.Watch(store, wishlist.Count, push)
	defer unsubscribe()

	if err := h.write(ctx, conn, store.Len()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case n := <-updates:
			if err := h.write(ctx, conn, n); err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) write(ctx context.Context, conn *websocket.Conn, count int) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, CountMessage{Count: count}); err != nil {
		if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
			websocket.CloseStatus(err) != websocket.StatusGoingAway {
			h.logger.WithError(err).Debug("WebSocket write failed")
		}
		return err
	}
	return nil
}
