// Status Watch - tail a running instance's status websocket.
//
// Connects to /ws/status on a live dashboard and prints one line per
// update. Works from any machine that can reach the instance.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

// statusFrame mirrors the dashboard's status payload, trimmed to the
// fields worth printing on a terminal.
type statusFrame struct {
	Mode   string `json:"mode"`
	Frames int64  `json:"frames"`
	Motion struct {
		Energy   float64 `json:"energy"`
		Velocity float64 `json:"velocity"`
		Type     string  `json:"type"`
	} `json:"motion"`
	Chaos struct {
		Score float64 `json:"score"`
		Label string  `json:"label"`
	} `json:"chaos"`
	Params struct {
		BaseFreq float64 `json:"base_freq"`
	} `json:"params"`
	OutputLevel float64 `json:"output_level"`
	LastError   string  `json:"last_error"`
}

func main() {
	addr := flag.String("addr", "localhost:8090", "host:port of a running instance")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/status", *addr)
	fmt.Println("📡 Status Watch")
	fmt.Println("===============")
	fmt.Printf("Connecting to %s\n\n", url)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("❌ Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Goodbye!")
		ws.Close()
		os.Exit(0)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			fmt.Printf("\n❌ Connection lost: %v\n", err)
			os.Exit(1)
		}

		var st statusFrame
		if err := json.Unmarshal(data, &st); err != nil {
			continue
		}

		line := fmt.Sprintf("[%s] #%d %-6s chaos=%.3f (%s) freq=%.0fHz level=%.4f",
			st.Mode, st.Frames, st.Motion.Type,
			st.Chaos.Score, st.Chaos.Label, st.Params.BaseFreq, st.OutputLevel)
		if st.LastError != "" {
			line += "  ⚠️ " + st.LastError
		}
		fmt.Println(line)
	}
}
