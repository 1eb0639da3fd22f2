package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"threatvisor/internal/editor"
	"threatvisor/internal/graph"
	"threatvisor/internal/layout"
)

const (
	editorWSWriteWait = 10 * time.Second
	editorWSPongWait  = 60 * time.Second
	editorWSPingEvery = (editorWSPongWait * 9) / 10
)

var editorWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type editorWSInbound struct {
	Type     string  `json:"type"`
	Text     string  `json:"text,omitempty"`
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
	Label    string  `json:"label,omitempty"`
	Boundary string  `json:"boundary,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
}

type editorWSOutbound struct {
	Type    string       `json:"type"`
	Session string       `json:"session,omitempty"`
	Text    string       `json:"text,omitempty"`
	Graph   *graph.Model `json:"graph,omitempty"`
	ID      string       `json:"id,omitempty"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// wsEvents bridges one controller's event sink onto the socket's write
// channel. It lives exactly as long as the connection.
type wsEvents struct {
	writeCh chan editorWSOutbound
}

func (e *wsEvents) TextChanged(text string) {
	pushEditorWS(e.writeCh, editorWSOutbound{Type: "text", Text: text})
}

func (e *wsEvents) GraphReplaced(m *graph.Model) {
	pushEditorWS(e.writeCh, editorWSOutbound{Type: "graph", Graph: m})
}

func (e *wsEvents) TextError(err error) {
	pushEditorWS(e.writeCh, editorWSOutbound{
		Type:    "error",
		Code:    "invalid_definition",
		Message: err.Error(),
	})
}

func (e *wsEvents) NodeClicked(id string) {
	pushEditorWS(e.writeCh, editorWSOutbound{Type: "clicked", ID: id})
}

// HandleEditorWS runs one editing session per connection: a controller
// scoped to the socket, torn down when the socket closes.
func (a *API) HandleEditorWS(w http.ResponseWriter, r *http.Request) {
	conn, err := editorWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(editorWSPongWait)); err != nil {
		log.Printf("editor ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(editorWSPongWait))
	})

	writeCh := make(chan editorWSOutbound, 32)
	writerDone := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(editorWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(editorWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(editorWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctrl := editor.New(&wsEvents{writeCh: writeCh}, editor.DefaultDebounce)
	defer ctrl.Close()

	pushEditorWS(writeCh, editorWSOutbound{Type: "session", Session: sessionID})

	for {
		var in editorWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			close(stop)
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "set_text":
			ctrl.SetText(in.Text)
		case "move_node":
			ctrl.MoveNode(in.ID, in.X, in.Y)
		case "connect":
			ctrl.Connect(in.From, in.To, in.Label)
		case "rename":
			ctrl.RenameNode(in.ID, in.Name)
		case "set_boundary":
			ctrl.SetNodeBoundary(in.ID, in.Boundary)
		case "set_edge_label":
			ctrl.SetEdgeLabel(in.ID, in.Label)
		case "remove_node":
			ctrl.RemoveNode(in.ID)
		case "remove_edge":
			ctrl.RemoveEdge(in.ID)
		case "node_click":
			ctrl.Click(in.ID)
		case "layout":
			runEditorLayout(r.Context(), ctrl, writeCh)
		case "flush":
			ctrl.Flush()
		default:
			pushEditorWS(writeCh, editorWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

// runEditorLayout resolves placeholder positions with the grid engine and
// sends back the settled graph. Synchronous from the session's point of
// view; the run itself happens off-goroutine with a bounded wait.
func runEditorLayout(ctx context.Context, ctrl *editor.Controller, writeCh chan editorWSOutbound) {
	m := ctrl.Model()
	if !m.NeedsLayout {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	nodes, edges := layout.Inputs(m)
	res := <-layout.Run(runCtx, layout.Grid{}, nodes, edges)
	if res.Err != nil {
		pushEditorWS(writeCh, editorWSOutbound{
			Type:    "error",
			Code:    "layout_failed",
			Message: res.Err.Error(),
		})
		return
	}
	ctrl.ApplyLayout(res.Positions)
	pushEditorWS(writeCh, editorWSOutbound{Type: "graph", Graph: ctrl.Model()})
}

// pushEditorWS never blocks the session goroutine: on a full channel the
// oldest frame is dropped to make room.
func pushEditorWS(writeCh chan editorWSOutbound, out editorWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
