// ABOUTME: Package tools implements the Cassini observation query tools.
// ABOUTME: Argument coercion, pagination and result shaping live alongside them.

// Package tools provides the four observation tools exposed over MCP:
// get_observation_details, query_observations_by_target,
// query_observations_by_team and query_observations_by_timerange.
//
// Arguments arrive as loosely typed JSON. The helpers in args.go accept
// numbers, strings and booleans interchangeably where the schema asks for a
// string or an integer, so a client that sends "limit": "25" is treated the
// same as one that sends "limit": 25.
package tools
