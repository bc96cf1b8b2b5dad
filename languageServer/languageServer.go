package languageServer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	wsstream "github.com/sourcegraph/jsonrpc2/websocket"

	"github.com/uxnkit/taltools/util"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

func ListenAndServe() {
	// using stdin and stdout

	h := handler{}
	<-jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}), h).DisconnectNotify()
}

func ListenAndServeTCP(addr string) {
	// using tcp mode for jsonrpc2
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to listen for tcp traffic: %v", err)
	}
	defer listener.Close()

	log.Println("tal language server: listening for TCP connections on", addr)

	connectionCount := 0

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Fatalf("failed to accept incoming connection: %v", err)
		}
		connectionCount = connectionCount + 1
		connectionID := connectionCount
		log.Printf("tal language server: received incoming connection #%d\n", connectionID)
		jsonrpc2Connection := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}), handler{})
		go func() {
			<-jsonrpc2Connection.DisconnectNotify()
			log.Printf("tal language server: connection #%d closed\n", connectionID)
		}()
	}
}

// ListenAndServeWebSocket serves the same protocol over a websocket at /lsp,
// for browser-hosted editors.
func ListenAndServeWebSocket(addr string) {
	var upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	http.HandleFunc("/lsp", func(w http.ResponseWriter, r *http.Request) {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println(err)
			return
		}

		jsonrpc2Connection := jsonrpc2.NewConn(context.Background(), wsstream.NewObjectStream(conn), handler{})
		<-jsonrpc2Connection.DisconnectNotify()
	})

	log.Println("tal language server: listening for websocket connections on", addr)
	http.ListenAndServe(addr, nil)
}

type handler struct{}

func (h handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	util.LogF("tal language server: received request: %s", req.Method)
	switch req.Method {
	case "textDocument/didOpen":
		documentOpenNotification(conn, req)
	case "textDocument/didClose":
		documentCloseNotification(conn, req)
	case "textDocument/didChange":
		documentChangeNotification(conn, req)
	case "initialize":
		handleInitialize(conn, req)
	case "textDocument/diagnostic":
		documentDiagnostics(conn, req)
	case "textDocument/hover":
		hoverRequest(conn, req)

	// quitting
	case "shutdown":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	case "exit":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	}
}

func handleInitialize(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	// parse req params as InitializeParams
	// return InitializeResult
	decodedParams := InitializeParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1
	result.Capabilities.HoverProvider = true
	conn.Reply(context.Background(), req.ID, result)
}
