// Package app composes the sheet services: document loading, the derive
// pipeline, the projection store and file watching.
package app
