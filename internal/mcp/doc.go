// Package mcp exposes ferret's filesystem tools over the Model Context
// Protocol using the official Go SDK.
//
// The server registers read_file, list_directory, search_files and
// get_file_info unconditionally. When a change watcher is supplied it also
// registers the get_recent_changes tool and the file-changes://recent
// resource; when the watcher is absent neither surface exists, so clients
// discover the capability through tools/list rather than through errors.
//
// Handlers translate tools.Result values directly into protocol responses:
// business failures become IsError results with a "[Code] message" text,
// successful data is serialized as JSON, and read_file returns the file
// content as plain text. Go errors from the tool layer are propagated to
// the SDK as protocol failures.
package mcp
