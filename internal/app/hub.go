// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/compass"
)

const (
	wsSendBuffer   = 8
	wsWriteTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// bearingHub keeps the latest bearing and fans every new one out to the
// connected websocket clients. Clients that cannot keep up are dropped.
type bearingHub struct {
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	last    compass.Bearing
	have    bool
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan compass.Bearing
}

func newBearingHub(logger *zap.SugaredLogger) *bearingHub {
	return &bearingHub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Publish records b as the latest bearing and queues it for every client.
func (h *bearingHub) Publish(b compass.Bearing) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = b
	h.have = true
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.logger.Warnf("web: websocket client too slow, dropping (%d left)", len(h.clients)-1)
			h.removeLocked(c)
		}
	}
}

// Latest returns the most recent bearing, if any arrived yet.
func (h *bearingHub) Latest() (compass.Bearing, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.have
}

// Clients returns the number of connected websocket clients.
func (h *bearingHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *bearingHub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.have {
		c.send <- h.last
	}
}

func (h *bearingHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *bearingHub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ServeWS upgrades the request and streams bearings until the client
// goes away.
func (h *bearingHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &wsClient{conn: conn, send: make(chan compass.Bearing, wsSendBuffer)}
	h.add(c)
	defer h.remove(c)

	go func() {
		for b := range c.send {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(b); err != nil {
				h.logger.Debugf("web: websocket write error: %v", err)
				_ = conn.Close()
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteTimeout))
	}()

	// the read loop only notices the client leaving
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugf("web: websocket error: %v", err)
			}
			return
		}
	}
}
