// Package utils holds input validation shared by the HTTP and WebSocket surfaces.
package utils
