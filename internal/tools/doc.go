// Package tools implements the sandboxed filesystem operations ferret
// exposes over MCP: reading files, listing directories, glob and content
// search, and file metadata.
//
// Every operation validates its path arguments through security.Path before
// touching the filesystem, so nothing outside the base directory is ever
// opened. Operations are synchronous and stateless; each invocation opens
// and closes its own handles, making concurrent calls safe.
//
// Results use the two-level error scheme: business failures (denied paths,
// missing files, bad patterns) come back as Result values with StatusError
// and a structured code, while Go errors are reserved for conditions the
// protocol layer should treat as server faults.
package tools
