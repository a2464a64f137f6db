// Package cortextest runs an in-process Cortex service for tests.
//
// The server speaks the same JSON-RPC-over-WebSocket protocol as the
// real service, with scriptable fixtures: which user is logged in,
// whether access is granted, which subjects, records and headsets
// exist, which warnings the device flow emits, and per-method forced
// errors, delays and hangs for exercising correlation and timeouts.
package cortextest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// Config scripts the server behavior. The zero value is a service with
// no logged-in user and nothing to discover.
type Config struct {
	// Username is the identity reported by getUserLogin.
	Username string

	// LastLoginTime is echoed in the getUserLogin result.
	LastLoginTime string

	// AccessDenied makes requestAccess report accessGranted=false.
	AccessDenied bool

	// FirstName and LastName fill getUserInformation.
	FirstName string
	LastName  string

	// Subjects and Records are returned by the query methods, as raw
	// JSON objects so tests control exact payload shape and order.
	Subjects []json.RawMessage
	Records  []json.RawMessage

	// HeadsetIDs are the devices discovered by queryHeadsets.
	HeadsetIDs []string

	// ConnectOutcome is the warning code emitted after a connect
	// command. Zero means cortex.WarnHeadsetReady.
	ConnectOutcome cortex.WarningCode

	// SilentDevice suppresses all device warnings, so warning waits
	// time out.
	SilentDevice bool

	// PreScanWarnings are emitted before the scan-finished warning, to
	// exercise warning filtering.
	PreScanWarnings []cortex.WarningCode

	// FailStreams are rejected by subscribe with a per-stream failure.
	FailStreams []cortex.Stream

	// Errors forces an error response for the named methods.
	Errors map[string]*cortex.Error

	// Delays postpones the response to the named methods, letting
	// tests force out-of-order delivery.
	Delays map[string]time.Duration

	// Hang makes the named methods never respond.
	Hang map[string]bool
}

// Server is a scriptable in-process Cortex service.
type Server struct {
	cfg Config
	hs  *httptest.Server

	mu        sync.Mutex
	calls     []string
	lastSub   []cortex.Stream
	lastRec   map[string]any
	tokenSeq  int
	sessionID string
}

// NewServer starts the service. Callers must Close it.
func NewServer(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.hs = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL is the ws:// endpoint of the server.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.hs.URL, "http")
}

// Close shuts the service down.
func (s *Server) Close() {
	s.hs.Close()
}

// Calls returns the method names received so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// LastSubscribe returns the streams of the most recent subscribe call.
func (s *Server) LastSubscribe() []cortex.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cortex.Stream(nil), s.lastSub...)
}

// LastCreateRecord returns the params of the most recent createRecord
// call, or nil if none was made.
func (s *Server) LastCreateRecord() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRec
}

// SessionID returns the id issued by the most recent createSession.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

type request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// wsConn serializes writes; responses and warnings come from multiple
// goroutines when delays are configured.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) respond(id uint64, result any) {
	c.writeJSON(map[string]any{"jsonrpc": "2.0", "id": id, "result": result})
}

func (c *wsConn) respondError(id uint64, e *cortex.Error) {
	c.writeJSON(map[string]any{"jsonrpc": "2.0", "id": id, "error": e})
}

func (c *wsConn) warn(code cortex.WarningCode, message string) {
	c.writeJSON(map[string]any{
		"jsonrpc": "2.0",
		"warning": map[string]any{"code": code, "message": message},
	})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	for {
		_, message, err := raw.ReadMessage()
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(message, &req); err != nil {
			continue
		}

		s.mu.Lock()
		s.calls = append(s.calls, req.Method)
		s.mu.Unlock()

		if s.cfg.Hang[req.Method] {
			continue
		}
		if delay := s.cfg.Delays[req.Method]; delay > 0 {
			go func(req request) {
				time.Sleep(delay)
				s.dispatch(conn, req)
			}(req)
			continue
		}
		s.dispatch(conn, req)
	}
}

func (s *Server) dispatch(conn *wsConn, req request) {
	if e := s.cfg.Errors[req.Method]; e != nil {
		conn.respondError(req.ID, e)
		return
	}

	switch req.Method {
	case "getUserLogin":
		if s.cfg.Username == "" {
			conn.respond(req.ID, []any{})
			return
		}
		conn.respond(req.ID, []map[string]any{{
			"username":      s.cfg.Username,
			"loginTime":     "2024-01-01T00:00:00.000Z",
			"lastLoginTime": s.cfg.LastLoginTime,
		}})

	case "requestAccess":
		conn.respond(req.ID, map[string]any{
			"accessGranted": !s.cfg.AccessDenied,
			"message":       "access request handled",
		})

	case "authorize", "generateNewToken":
		s.mu.Lock()
		s.tokenSeq++
		token := fmt.Sprintf("tok-%d-%s", s.tokenSeq, uuid.NewString())
		s.mu.Unlock()
		conn.respond(req.ID, map[string]any{"cortexToken": token})

	case "getUserInformation":
		conn.respond(req.ID, map[string]any{
			"username":         s.cfg.Username,
			"firstName":        s.cfg.FirstName,
			"lastName":         s.cfg.LastName,
			"licenseAgreement": map[string]any{"accepted": true},
		})

	case "querySubjects":
		conn.respond(req.ID, map[string]any{
			"subjects": rawList(s.cfg.Subjects),
			"count":    len(s.cfg.Subjects),
		})

	case "createSubject":
		var fields map[string]any
		json.Unmarshal(req.Params, &fields)
		delete(fields, "cortexToken")
		conn.respond(req.ID, fields)

	case "queryRecords":
		conn.respond(req.ID, map[string]any{
			"records": rawList(s.cfg.Records),
			"count":   len(s.cfg.Records),
		})

	case "getRecordInfos":
		var params struct {
			RecordIDs []string `json:"recordIds"`
		}
		json.Unmarshal(req.Params, &params)
		var out []json.RawMessage
		for _, rec := range s.cfg.Records {
			var probe struct {
				UUID string `json:"uuid"`
			}
			json.Unmarshal(rec, &probe)
			for _, id := range params.RecordIDs {
				if probe.UUID == id {
					out = append(out, rec)
				}
			}
		}
		conn.respond(req.ID, rawList(out))

	case "updateRecord":
		var params struct {
			Record      string `json:"record"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		json.Unmarshal(req.Params, &params)
		conn.respond(req.ID, map[string]any{
			"uuid":        params.Record,
			"title":       params.Title,
			"description": params.Description,
		})

	case "createRecord":
		var fields map[string]any
		json.Unmarshal(req.Params, &fields)
		s.mu.Lock()
		s.lastRec = fields
		s.mu.Unlock()
		conn.respond(req.ID, map[string]any{
			"record": map[string]any{
				"uuid":  uuid.NewString(),
				"title": fields["title"],
			},
		})

	case "queryHeadsets":
		var headsets []map[string]any
		for _, id := range s.cfg.HeadsetIDs {
			headsets = append(headsets, map[string]any{"id": id, "status": "discovered"})
		}
		if headsets == nil {
			headsets = []map[string]any{}
		}
		conn.respond(req.ID, headsets)

	case "controlDevice":
		var params struct {
			Command string `json:"command"`
		}
		json.Unmarshal(req.Params, &params)
		conn.respond(req.ID, map[string]any{"command": params.Command, "message": params.Command + " command received"})
		if s.cfg.SilentDevice {
			return
		}
		switch params.Command {
		case cortex.ControlRefresh:
			go func() {
				for _, code := range s.cfg.PreScanWarnings {
					conn.warn(code, "pre-scan warning")
				}
				conn.warn(cortex.WarnHeadsetScanFinished, "headset scan finished")
			}()
		case cortex.ControlConnect:
			outcome := s.cfg.ConnectOutcome
			if outcome == 0 {
				outcome = cortex.WarnHeadsetReady
			}
			go conn.warn(outcome, "headset connected")
		}

	case "createSession":
		id := uuid.NewString()
		s.mu.Lock()
		s.sessionID = id
		s.mu.Unlock()
		conn.respond(req.ID, map[string]any{"id": id, "status": cortex.SessionOpen})

	case "updateSession":
		var params struct {
			Session string `json:"session"`
			Status  string `json:"status"`
		}
		json.Unmarshal(req.Params, &params)
		conn.respond(req.ID, map[string]any{"id": params.Session, "status": params.Status})

	case "subscribe", "unsubscribe":
		var params struct {
			Streams []cortex.Stream `json:"streams"`
		}
		json.Unmarshal(req.Params, &params)
		s.mu.Lock()
		s.lastSub = params.Streams
		s.mu.Unlock()
		success := []map[string]any{}
		failure := []map[string]any{}
		for _, stream := range params.Streams {
			if streamIn(stream, s.cfg.FailStreams) {
				failure = append(failure, map[string]any{
					"streamName": stream, "code": 21, "message": "stream unavailable",
				})
			} else {
				success = append(success, map[string]any{"streamName": stream})
			}
		}
		conn.respond(req.ID, map[string]any{"success": success, "failure": failure})

	default:
		conn.respondError(req.ID, &cortex.Error{Code: -32601, Message: "method not found: " + req.Method})
	}
}

func rawList(list []json.RawMessage) []json.RawMessage {
	if list == nil {
		return []json.RawMessage{}
	}
	return list
}

func streamIn(s cortex.Stream, list []cortex.Stream) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
