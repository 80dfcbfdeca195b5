// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"

	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/compass"
	"github.com/relabs-tech/places_compass/internal/config"
)

// newWebMux wires the HTTP API around a bearing hub.
func newWebMux(hub *bearingHub, imageSize int, staticDir string, logger *zap.SugaredLogger) *http.ServeMux {
	mux := http.NewServeMux()

	// JSON API endpoint: latest bearing
	mux.HandleFunc("/api/bearing", func(w http.ResponseWriter, r *http.Request) {
		b, ok := hub.Latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(b); err != nil {
			logger.Warnf("json encode error: %v", err)
		}
	})

	mux.HandleFunc("/api/compass.png", func(w http.ResponseWriter, r *http.Request) {
		var bp *compass.Bearing
		if b, ok := hub.Latest(); ok {
			bp = &b
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := png.Encode(w, RenderCompass(bp, imageSize)); err != nil {
			logger.Warnf("png encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws/bearing", hub.ServeWS)

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// RunWeb subscribes to the bearing topic and serves it over HTTP and
// websocket, plus a rendered compass face.
func RunWeb(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	hub := newBearingHub(logger)
	err = subscribe(client, cfg.TopicBearing, func(payload []byte) {
		var b compass.Bearing
		if err := json.Unmarshal(payload, &b); err != nil {
			logger.Warnf("MQTT payload unmarshal error: %v", err)
			return
		}
		hub.Publish(b)
	}, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	logger.Infof("web server listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(hub, cfg.CompassImageSize, "web", logger))
}
