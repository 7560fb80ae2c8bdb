// Package mcp implements the Model Context Protocol endpoint for the Cassini
// observation tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over HTTP. One request object is POSTed to
// /mcp and one response object comes back, always with HTTP status 200:
//
//   - initialize  - protocol version 2024-11-05 and the server identity
//   - tools/list  - every registered tool, in registration order
//   - tools/call  - runs one tool with its arguments
//
// # Tool Execution
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "query_observations_by_target",
//	    "arguments": {"target": "Titan", "limit": 10}
//	  },
//	  "id": 2
//	}
//
// Results are a list of content blocks. The observation tools return a single
// resource block holding indented JSON.
//
// # Errors
//
// Envelope failures use the standard JSON-RPC codes. An unknown tool name
// yields -32001 and any failure raised while running a tool, including bad
// arguments, yields -32002 with a request_id in the error data that matches
// the server logs.
//
// The response id always mirrors the request id exactly; it is null only when
// the request could not be parsed or carried no id.
//
// # Usage
//
//	server, err := mcp.NewServer(mcp.Config{Registry: reg, Logger: logger})
//	mux := http.NewServeMux()
//	server.RegisterRoutes(mux)
//
// Handle can also be called directly with raw request bytes, which is how the
// command line "call" subcommand runs tools without a listener.
package mcp
