package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/mmkal/workert/internal/diag"
	"github.com/mmkal/workert/internal/frontend"
)

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) wsOutgoing {
	t.Helper()
	var msg wsOutgoing
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading message: %v", err)
	}
	return msg
}

func TestWebSocketRunPhases(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{"success":true,"result":2}`)}
	conn := dialWS(t, newTestServer(checker, runner))

	if err := conn.WriteJSON(wsIncoming{Type: "run", Code: "export function main() { return 1 + 1; }"}); err != nil {
		t.Fatal(err)
	}

	if msg := readMsg(t, conn); msg.Type != "checking" {
		t.Fatalf("first phase = %q, want checking", msg.Type)
	}
	if msg := readMsg(t, conn); msg.Type != "running" {
		t.Fatalf("second phase = %q, want running", msg.Type)
	}
	msg := readMsg(t, conn)
	if msg.Type != "result" || msg.Status != 200 {
		t.Fatalf("final phase = %+v", msg)
	}
	if string(msg.Result) != `{"success":true,"result":2}` {
		t.Errorf("result = %s", msg.Result)
	}
}

func TestWebSocketCheckFailure(t *testing.T) {
	checker := &fakeChecker{result: &frontend.CheckResult{
		Success: false,
		Diagnostics: []diag.Diagnostic{
			diag.Diagnostic{Message: "';' expected.", Code: 1005, Category: diag.Error}.At(1, 3),
		},
	}}
	runner := &fakeRunner{}
	conn := dialWS(t, newTestServer(checker, runner))

	if err := conn.WriteJSON(wsIncoming{Type: "run", Code: "bad source"}); err != nil {
		t.Fatal(err)
	}

	if msg := readMsg(t, conn); msg.Type != "checking" {
		t.Fatalf("first phase = %q, want checking", msg.Type)
	}
	msg := readMsg(t, conn)
	if msg.Type != "diagnostics" {
		t.Fatalf("second phase = %q, want diagnostics", msg.Type)
	}
	if len(msg.Diagnostics) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(msg.Diagnostics))
	}
	if runner.calls != 0 {
		t.Error("sandbox must not run after a failed check")
	}
}

func TestWebSocketInvalidMessage(t *testing.T) {
	conn := dialWS(t, newTestServer(&fakeChecker{}, &fakeRunner{}))

	if err := conn.WriteJSON(wsIncoming{Type: "ping"}); err != nil {
		t.Fatal(err)
	}

	if msg := readMsg(t, conn); msg.Type != "error" {
		t.Fatalf("got %q, want error", msg.Type)
	}
}
