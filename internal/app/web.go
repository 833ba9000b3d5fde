package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/gps"
	"github.com/openmarine/tillerpilot/internal/helm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served on the boat's own hotspot
	},
}

// RunWeb serves the helm dashboard: latest fix and steering status as
// JSON, a websocket pushing status updates, and static files.
func RunWeb(cfg config.Config) error {
	var (
		mu         sync.RWMutex
		lastFix    gps.Fix
		haveFix    bool
		lastStatus helm.Status
		haveStatus bool
	)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-web")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTT.Broker)

	fixToken := client.Subscribe(cfg.MQTT.TopicFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("web: fix unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastFix = f
		haveFix = true
		mu.Unlock()
	})
	fixToken.Wait()
	if fixToken.Error() != nil {
		return fixToken.Error()
	}

	statusToken := client.Subscribe(cfg.MQTT.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s helm.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: status unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastStatus = s
		haveStatus = true
		mu.Unlock()
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("web: subscribed to %s and %s", cfg.MQTT.TopicFix, cfg.MQTT.TopicStatus)

	http.HandleFunc("/api/fix", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()
		if !haveFix {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastFix); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()
		if !haveStatus {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastStatus); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			status := lastStatus
			ok := haveStatus
			mu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(status); err != nil {
				// Client went away; drop the connection quietly.
				return
			}
		}
	})

	http.Handle("/", http.FileServer(http.Dir(cfg.Web.StaticDir)))

	log.Printf("web: listening on %s", cfg.Web.Addr)
	return http.ListenAndServe(cfg.Web.Addr, nil)
}
