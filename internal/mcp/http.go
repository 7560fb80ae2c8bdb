// ABOUTME: HTTP transport for the dispatcher: one JSON-RPC object per POST to /mcp.
// ABOUTME: Every JSON-RPC outcome is written with status 200.

package mcp

import (
	"io"
	"net/http"
)

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// RegisterRoutes registers the MCP endpoint on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.handleMCP)
}

// handleMCP accepts POST only.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.handlePost(w, r)
}

// handlePost reads the body and writes the dispatcher's response.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("received MCP request", "remote_addr", r.RemoteAddr)

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.writeResponse(w, s.encodeError(NullID, CodeParseError, "failed to read request body", nil))
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.metrics.RecordRequest("", false, CodeInvalidRequest)
		s.writeResponse(w, s.encodeError(NullID, CodeInvalidRequest, "request body too large", nil))
		return
	}

	s.writeResponse(w, s.Handle(r.Context(), body))
}

func (s *Server) writeResponse(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn("failed to write JSON-RPC response", "error", err)
	}
}
