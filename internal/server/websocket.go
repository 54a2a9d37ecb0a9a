package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/diag"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same permissive cross-origin policy as the REST surface
	},
}

// wsIncoming is a message from the client.
type wsIncoming struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// wsOutgoing is a message to the client. Type is one of "checking",
// "diagnostics", "running", "result" or "error".
type wsOutgoing struct {
	Type        string            `json:"type"`
	Error       string            `json:"error,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	Status      int               `json:"status,omitempty"`
	Result      json.RawMessage   `json:"result,omitempty"`
}

// handleWebSocket streams the pipeline phases for each submitted snippet.
// Snippets on one connection run strictly one at a time; the connection is
// the client's own ordering guarantee.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.log.Warn("websocket read error", zap.Error(err))
			return
		}

		if msg.Type != "run" || msg.Code == "" {
			s.wsWrite(conn, wsOutgoing{Type: "error", Error: "invalid message"})
			continue
		}

		s.runSnippet(conn, r, msg.Code)
	}
}

func (s *Server) runSnippet(conn *websocket.Conn, r *http.Request, code string) {
	ctx := r.Context()

	s.wsWrite(conn, wsOutgoing{Type: "checking"})
	res, err := s.play.Check(ctx, code)
	if err != nil {
		s.wsWrite(conn, wsOutgoing{Type: "error", Error: "Compiler frontend unavailable: " + err.Error()})
		return
	}

	if !res.Success {
		s.wsWrite(conn, wsOutgoing{
			Type:        "diagnostics",
			Error:       diag.Summary(res.Diagnostics),
			Diagnostics: res.Diagnostics,
		})
		return
	}

	s.wsWrite(conn, wsOutgoing{Type: "running"})
	status, body := s.play.Execute(ctx, res.Lowered)
	s.wsWrite(conn, wsOutgoing{Type: "result", Status: status, Result: json.RawMessage(body)})
}

func (s *Server) wsWrite(conn *websocket.Conn, v wsOutgoing) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("websocket marshal error", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn("websocket write error", zap.Error(err))
	}
}
