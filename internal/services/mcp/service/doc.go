// Package service runs the sheet MCP server.
//
// It owns transport selection (stdio or streamable HTTP behind a host
// allowlist) and module registration; tool and resource semantics live in
// the sibling domain package.
package service
