package emulator

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// The emulator normally runs headless from the command line, but for
// development it is handy to watch console output live and restart the ROM
// without rebuilding. This file hosts a small web console for that: a page
// with RUN/STOP buttons and a console pane fed over a websocket.

type consoleMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func runStandaloneEmulator(romPath string, conn *websocket.Conn, emInst **EmulatorInstance) {
	rom, e := os.ReadFile(romPath)
	if e != nil {
		log.Printf("Could not read ROM file %s: %v", romPath, e)
		conn.WriteJSON(consoleMessage{Type: "console", Text: fmt.Sprintf("Could not read ROM file: %v\n", e)})
		return
	}

	wsMutex := sync.Mutex{}
	send := func(text string) {
		messageBytes, e := json.Marshal(consoleMessage{Type: "console", Text: text})
		if e != nil {
			log.Fatalf("Could not marshal console message: %v", e)
		}
		wsMutex.Lock()
		conn.WriteMessage(websocket.TextMessage, messageBytes)
		wsMutex.Unlock()
	}

	config := EmulatorConfig{
		StdOutCallback: func(b byte) {
			send(string(rune(b)))
		},
		RuntimeErrorCallback: func(e RuntimeException) {
			send(fmt.Sprintf("Runtime exception at 0x%04x: %s\n", e.PC(), e.Message()))
		},
		RuntimeLimit: 10000000,
	}

	em := NewEmulator(config)
	*emInst = em
	em.LoadROM(rom)
	em.Emulate(CodeOrigin)

	send(fmt.Sprintf("\nHalted after %d instructions, exit code %d\n", em.GetTotalInstructionsExecuted(), em.GetExitCode()))
}

// RunStandaloneWebserver hosts the web console on the given address
// (for example ":7070") and runs the ROM at romPath on demand.
func RunStandaloneWebserver(romPath string, addr string) {
	var upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println(err)
			return
		}

		var emInst *EmulatorInstance

		for {
			_, messageBytes, err := conn.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				if emInst != nil {
					emInst.Terminate()
				}
				break
			}

			message := make(map[string]interface{})
			err = json.Unmarshal(messageBytes, &message)
			if err != nil {
				log.Println("json:", err)
				break
			}

			mType := message["type"].(string)
			switch mType {
			case "run":
				if emInst != nil {
					emInst.Terminate()
				}
				go runStandaloneEmulator(romPath, conn, &emInst)
			case "stop":
				if emInst != nil {
					emInst.Terminate()
				}
			default:
				log.Printf("Unknown message type: %s", mType)
			}
		}
	}

	http.HandleFunc("/ws", handler)
	http.HandleFunc("/", handleGetPage)
	log.Printf("Connect to the emulator at http://localhost%s", addr)
	http.ListenAndServe(addr, nil)
}

func handleGetPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(htmlPage))
}

var htmlPage = `<html>
<head>
	<title>Stack Machine Console</title>
</head>
<body style="background-color: #1E1E1E;">
	<h1 style="color: white; display: inline-block;">Stack Machine Console</h1>
	<button id="runButton" style="margin-left: 50px; height: 40px; width: 80px;">RUN</button>
	<button id="stopButton" style="margin-left: 10px; height: 40px; width: 80px;">STOP</button>
	<h2 style="color: white;">Console</h2>
	<div style="width: 980px; padding: 10px; color: white; font-size: 1.2em; font-family: monospace; background-color: black; height: 400px; overflow-y: 'auto'; border: 2px solid white;" id="console"></div>

	<script>
		var socket = new WebSocket("ws://" + location.host + "/ws");

		var consoleText = "";

		socket.onopen = function() {
			socket.onmessage = function(event) {
				var data = JSON.parse(event.data);
				if (data.type == "console") {
					consoleText += data.text.replaceAll("\n", "<br/>");
					document.getElementById("console").innerHTML = consoleText;
				}
			};
		};

		// when the socket closes, try to reconnect every 3 seconds
		socket.onclose = function() {
			setTimeout(function() {
				socket = new WebSocket("ws://" + location.host + "/ws");
			}, 3000);
		};

		document.getElementById("runButton").onclick = function() {
			consoleText = "";
			document.getElementById("console").innerHTML = "";
			socket.send(JSON.stringify({ type: "run" }));
		};

		document.getElementById("stopButton").onclick = function() {
			socket.send(JSON.stringify({ type: "stop" }));
		};
	</script>
</body>
</html>`
