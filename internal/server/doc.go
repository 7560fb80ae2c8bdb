// Package server wires the observation repository, the tool registry and
// the MCP endpoint into a single HTTP server.
//
// # Endpoints
//
//   - POST /mcp: JSON-RPC 2.0 (initialize, tools/list, tools/call)
//   - GET /health: liveness, always "OK"
//   - GET /health/ready: database readiness with the record count
//   - GET /metrics: Prometheus metrics, when enabled
//
// # Listeners
//
// By default the server listens on server.http_addr. With tailscale
// enabled it joins the tailnet through tsnet instead and serves plain HTTP
// on :80, HTTPS with tailnet certificates on :443, or public HTTPS through
// Funnel.
package server
