// Package domain holds MCP tool and resource handlers for character sheets.
//
// Handlers translate MCP inputs into sheet service calls and shape the
// results for structured tool output. Transport concerns live in the
// service package.
package domain
