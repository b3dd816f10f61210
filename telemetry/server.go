package telemetry

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	// Enable pprof handlers on the default mux.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
)

// Server exposes a Recorder's counters over HTTP, in the same shape the
// akita monitoring server exposes simulation state: a gorilla/mux router
// registered alongside net/http/pprof on an OS-assigned port.
type Server struct {
	recorder *Recorder
	portNumber int
}

// NewServer creates a Server for the given Recorder. A portNumber below
// 1000 is treated as "let the OS pick a port", matching the akita
// monitor's own guard against binding a privileged port.
func NewServer(recorder *Recorder, portNumber int) *Server {
	if portNumber < 1000 {
		portNumber = 0
	}
	return &Server{recorder: recorder, portNumber: portNumber}
}

// Start binds a listener and serves in the background, returning the
// port actually bound so a portNumber of 0 can be resolved.
func (s *Server) Start() (int, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", s.handleStats)
	r.HandleFunc("/api/run_id", s.handleRunID)
	http.Handle("/", r)

	actualPort := ":0"
	if s.portNumber >= 1000 {
		actualPort = fmt.Sprintf(":%d", s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return 0, err
	}

	go func() {
		_ = http.Serve(listener, nil)
	}()

	return listener.Addr().(*net.TCPAddr).Port, nil
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.recorder.Snapshot())
}

func (s *Server) handleRunID(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"run_id\":%q}", s.recorder.RunID().String())
}
