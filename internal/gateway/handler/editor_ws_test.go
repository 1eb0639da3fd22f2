package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialEditor(t *testing.T, api *API) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(api.HandleEditorWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) editorWSOutbound {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var out editorWSOutbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestEditorWS_SetTextProjectsGraph(t *testing.T) {
	conn := dialEditor(t, newTestAPI(t))

	if first := readFrame(t, conn); first.Type != "session" || first.Session == "" {
		t.Fatalf("first frame = %+v", first)
	}

	if err := conn.WriteJSON(editorWSInbound{Type: "set_text", Text: validDSL}); err != nil {
		t.Fatal(err)
	}
	out := readFrame(t, conn)
	if out.Type != "graph" || out.Graph == nil || len(out.Graph.Nodes) != 2 {
		t.Fatalf("frame = %+v", out)
	}

	if err := conn.WriteJSON(editorWSInbound{Type: "node_click", ID: "web"}); err != nil {
		t.Fatal(err)
	}
	out = readFrame(t, conn)
	if out.Type != "clicked" || out.ID != "web" {
		t.Fatalf("frame = %+v", out)
	}
}

func TestEditorWS_BadTextKeepsSessionAlive(t *testing.T) {
	conn := dialEditor(t, newTestAPI(t))
	readFrame(t, conn) // session

	if err := conn.WriteJSON(editorWSInbound{Type: "set_text", Text: "{not valid"}); err != nil {
		t.Fatal(err)
	}
	out := readFrame(t, conn)
	if out.Type != "error" || out.Code != "invalid_definition" {
		t.Fatalf("frame = %+v", out)
	}

	// The session still accepts good input afterwards.
	if err := conn.WriteJSON(editorWSInbound{Type: "set_text", Text: validDSL}); err != nil {
		t.Fatal(err)
	}
	if out := readFrame(t, conn); out.Type != "graph" {
		t.Fatalf("frame = %+v", out)
	}
}

func TestEditorWS_LayoutResolvesPlaceholders(t *testing.T) {
	conn := dialEditor(t, newTestAPI(t))
	readFrame(t, conn) // session

	if err := conn.WriteJSON(editorWSInbound{Type: "set_text", Text: validDSL}); err != nil {
		t.Fatal(err)
	}
	before := readFrame(t, conn)
	if !before.Graph.NeedsLayout {
		t.Fatalf("expected placeholder positions, got %+v", before.Graph)
	}

	if err := conn.WriteJSON(editorWSInbound{Type: "layout"}); err != nil {
		t.Fatal(err)
	}
	after := readFrame(t, conn)
	if after.Type != "graph" || after.Graph.NeedsLayout {
		t.Fatalf("frame = %+v", after)
	}
}
