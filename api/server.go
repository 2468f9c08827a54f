package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// requestBodyLimitBytes caps the size of a JSON request body the server
// will decode, so a misbehaving client can't hand the loader (which copies
// the whole body into a byte slice before validating it) an unbounded
// amount of memory.
const requestBodyLimitBytes = 1 << 20 // 1 MiB

// Server is the HTTP front end for driving one or more rv32i-emulator
// sessions remotely: load a flat binary, step/run it, and stream register
// and trap state back over REST and a companion WebSocket feed.
type Server struct {
	sessions    *SessionManager
	broadcaster *Broadcaster
	mux         *http.ServeMux
	httpServer  *http.Server
	port        int
	startedAt   time.Time
}

// NewServer builds a Server bound to 127.0.0.1:port. The server is not
// started until Start is called.
func NewServer(port int) *Server {
	broadcaster := NewBroadcaster()

	s := &Server{
		sessions:    NewSessionManager(broadcaster),
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
		port:        port,
		startedAt:   time.Now(),
	}

	s.registerRoutes()

	return s
}

// Handler returns the server's routes wrapped in the localhost-only CORS
// middleware, suitable for http.Server.Handler or httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// sessionAction is the handler for one action suffix on
// /api/v1/session/{id}/{action}. The sessionActions table maps each suffix
// to its handler, so handleSessionRoute is a single lookup plus dispatch
// and the set of supported actions is greppable in one place.
type sessionAction func(s *Server, w http.ResponseWriter, r *http.Request, sessionID string)

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)

	s.mux.HandleFunc("/api/v1/session", s.handleSession)
	s.mux.HandleFunc("/api/v1/session/", s.handleSessionRoute)

	s.mux.HandleFunc("/api/v1/config", s.handleConfig)

	s.mux.HandleFunc("/api/v1/examples", s.handleExamples)
	s.mux.HandleFunc("/api/v1/examples/", s.handleExamplesRoute)
}

// Start runs the HTTP server until it is shut down or fails to bind.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("rv32i-emulator API server listening on http://127.0.0.1:%d", s.port)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains WebSocket subscribers and stops accepting new requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GetBroadcaster exposes the event broadcaster for tests that want to
// subscribe directly without going through a WebSocket connection.
func (s *Server) GetBroadcaster() *Broadcaster {
	return s.broadcaster
}

// corsMiddleware allows only same-machine origins, since the debugger API
// exposes direct memory and register control over an emulated CPU and has
// no authentication of its own.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if isLocalOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isLocalOrigin reports whether origin could only have come from this
// machine: no Origin header at all (curl, native clients), a file:// page,
// or localhost/127.0.0.1 on any scheme and port.
func isLocalOrigin(origin string) bool {
	if origin == "" {
		return true
	}

	if strings.HasPrefix(origin, "file://") {
		return true
	}

	localPrefixes := []string{
		"http://localhost", "https://localhost",
		"http://127.0.0.1", "https://127.0.0.1",
	}
	for _, p := range localPrefixes {
		if strings.HasPrefix(origin, p) {
			return true
		}
	}

	return false
}

// handleHealth reports liveness plus how long the server has been up and
// how many sessions it is currently tracking.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":     "ok",
		"sessions":   s.sessions.Count(),
		"uptimeSecs": int(time.Since(s.startedAt).Seconds()),
		"time":       time.Now().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleSession dispatches POST (create) and GET (list) on /api/v1/session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

var sessionActions = map[string]sessionAction{
	"load":        (*Server).handleLoadProgram,
	"run":         (*Server).handleRun,
	"stop":        (*Server).handleStop,
	"step":        (*Server).handleStep,
	"step-over":   (*Server).handleStepOver,
	"step-out":    (*Server).handleStepOut,
	"reset":       (*Server).handleReset,
	"registers":   (*Server).handleGetRegisters,
	"memory":      (*Server).handleGetMemory,
	"disassembly": (*Server).handleGetDisassembly,
	"console":     (*Server).handleGetConsoleOutput,
	"breakpoint":  (*Server).handleBreakpoint,
	"breakpoints": (*Server).handleListBreakpoints,
	"sourcemap":   (*Server).handleGetSourceMap,
	"watchpoints": (*Server).handleListWatchpoints,
	"evaluate":    (*Server).handleEvaluateExpression,
}

// handleSessionRoute dispatches the per-session actions nested under
// /api/v1/session/{id}/{action}. A handful of actions (watchpoint deletion,
// trace, stats) take an extra path segment or branch on method, so they are
// handled inline rather than through the sessionActions table.
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	sessionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSessionStatus(w, r, sessionID)
		case http.MethodDelete:
			s.handleDestroySession(w, r, sessionID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	action := parts[1]

	switch action {
	case "watchpoint":
		if len(parts) == 3 && r.Method == http.MethodDelete {
			watchpointID, err := strconv.Atoi(parts[2])
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid watchpoint ID")
				return
			}
			s.handleDeleteWatchpoint(w, r, sessionID, watchpointID)
		} else {
			s.handleWatchpoint(w, r, sessionID)
		}
		return
	case "trace":
		if len(parts) < 3 {
			writeError(w, http.StatusBadRequest, "Trace action required (enable, disable, or data)")
			return
		}
		if parts[2] == "data" {
			s.handleTraceData(w, r, sessionID)
		} else {
			s.handleTraceControl(w, r, sessionID, parts[2])
		}
		return
	case "stats":
		switch len(parts) {
		case 2:
			s.handleStats(w, r, sessionID)
		case 3:
			s.handleStatsControl(w, r, sessionID, parts[2])
		default:
			writeError(w, http.StatusBadRequest, "Invalid stats endpoint")
		}
		return
	}

	if handler, ok := sessionActions[action]; ok {
		handler(s, w, r, sessionID)
		return
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown action: %s", action))
}

// handleConfig dispatches GET/PUT /api/v1/config.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handleUpdateConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleExamples handles GET /api/v1/examples.
func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	s.handleListExamples(w, r)
}

// handleExamplesRoute handles GET /api/v1/examples/{name}.
func (s *Server) handleExamplesRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/examples/")

	if path == "" {
		writeError(w, http.StatusBadRequest, "Example name required")
		return
	}

	s.handleGetExample(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, requestBodyLimitBytes))
	return decoder.Decode(v)
}
