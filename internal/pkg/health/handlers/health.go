package handlers

import (
	"net/http"
)

// HandlePing answers liveness probes.
func HandlePing(w http.ResponseWriter, r *http.Request) {
	writePlain(w, r, "pong\n")
}

// HandleHealth answers readiness probes. The bot keeps no local state that
// could be unhealthy, so reaching the handler is enough.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writePlain(w, r, "ok\n")
}

func writePlain(w http.ResponseWriter, r *http.Request, body string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(body))
}
