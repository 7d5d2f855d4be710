// Package api defines the transport DTOs for the workflow engine and the
// conversions from engine types. IPC and CLI both speak these shapes.
package api
