package middleware

import (
	"time"
)

type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}

type ResponseAPIDebug struct {
	Version   string    `json:"version"`
	Error     *string   `json:"error"`
	StartTime time.Time `json:"startTime"` // ISO8601 format, e.g., "2025-01-09T15:04:05Z07:00"
	EndTime   time.Time `json:"endTime"`   // ISO8601 format for consistency with StartTime
	RuntimeMs int64     `json:"runtimeMs"` // Runtime in milliseconds for better precision
}

type ResponseAPI struct {
	RequestID string            `json:"requestId"`
	Data      any               `json:"data"`
	Message   string            `json:"message"`
	Debug     *ResponseAPIDebug `json:"debug,omitempty"`
}

type StreamChunk struct {
	Buf   *[]byte // Pointer to a pooled buffer; returned via StreamResponse.Release
	Error error   // Error if any occurred during processing
}

// StreamResponse represents a streaming response configuration.
// Used for transcript downloads: chunks are written as they arrive and the
// client receives a plain-text attachment.
type StreamResponse struct {
	TotalCount  int64              // Total line count (sent as X-Total-Count header)
	ContentType string             // Defaults to "text/plain; charset=utf-8"
	Filename    string             // Optional Content-Disposition attachment name
	ChunkChan   <-chan StreamChunk // Channel to receive data chunks
	Release     func(*[]byte)      // Returns a chunk buffer to its pool; may be nil
	Error       error              // Error to return if streaming fails before starting
	Code        int                // HTTP status code (default 200)
}
