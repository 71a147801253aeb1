// Package transcript renders the archival text artifact of a closed
// ticket: a short header followed by the ordered replay of every message
// logged against the ticket.
//
// Rendering is chunked: lines accumulate in pooled buffers and are flushed
// to a channel whenever the chunk threshold is crossed, so a long
// transcript never has to be assembled in one contiguous allocation. The
// chunk channel is compatible with middleware.sendStream.
package transcript

import (
	"context"

	"helpdesk/common"
	"helpdesk/middleware"
)

// Meta is the transcript header: who the ticket belongs to and, once
// closed, who closed it and why.
type Meta struct {
	TicketID  string
	CreatedBy string
	ClosedBy  string // empty while the ticket is still open
	Reason    string // optional close reason
}

// Config defines chunking behavior for the renderer.
// All fields are optional and have sensible defaults.
type Config struct {
	// ChunkThreshold is the size in bytes at which a chunk is flushed.
	ChunkThreshold int

	// BufferSize is the initial capacity of buffers from the pool.
	BufferSize int

	// ChannelBuffer is the buffer size of the chunk channel.
	ChannelBuffer int
}

// DefaultConfig returns the default rendering configuration.
func DefaultConfig() Config {
	return Config{
		ChunkThreshold: 32 * 1024,
		BufferSize:     16 * 1024,
		ChannelBuffer:  4,
	}
}

func (c *Config) validate() {
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = 32 * 1024
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 16 * 1024
	}
	if c.ChannelBuffer <= 0 {
		c.ChannelBuffer = 4
	}
}

// Renderer assembles transcript artifacts. Safe for concurrent use; each
// Stream call runs in isolation and draws buffers from a shared pool.
type Renderer struct {
	config Config
	pool   BufferPool
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	config.validate()
	return &Renderer{
		config: config,
		pool:   NewBufferPool(config.BufferSize),
	}
}

const timestampLayout = "2006-01-02 15:04:05"

func appendHeader(buf []byte, meta Meta) []byte {
	buf = append(buf, "Ticket: "...)
	buf = append(buf, meta.TicketID...)
	buf = append(buf, "\nCreated by: "...)
	buf = append(buf, meta.CreatedBy...)
	buf = append(buf, '\n')
	if meta.ClosedBy != "" {
		buf = append(buf, "Closed by: "...)
		buf = append(buf, meta.ClosedBy...)
		buf = append(buf, '\n')
	}
	if meta.Reason != "" {
		buf = append(buf, "Reason: "...)
		buf = append(buf, meta.Reason...)
		buf = append(buf, '\n')
	}
	buf = append(buf, "\n--- Transcript ---\n\n"...)
	return buf
}

func appendLine(buf []byte, msg common.TicketMessage) []byte {
	buf = append(buf, '[')
	buf = append(buf, msg.Timestamp.Format(timestampLayout)...)
	buf = append(buf, "] "...)
	buf = append(buf, msg.Username...)
	buf = append(buf, ": "...)
	buf = append(buf, msg.Content...)
	buf = append(buf, '\n')
	return buf
}

// Stream renders the transcript into a chunked StreamResponse. The
// messages must already be in replay order; TotalCount carries the line
// count and Filename the conventional attachment name.
func (r *Renderer) Stream(ctx context.Context, meta Meta, msgs []common.TicketMessage) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, r.config.ChannelBuffer)

	go func() {
		defer close(chunkChan)

		buf := r.pool.Get()
		defer func() {
			if buf != nil {
				r.pool.Put(buf)
			}
		}()

		*buf = appendHeader(*buf, meta)

		for _, msg := range msgs {
			*buf = appendLine(*buf, msg)

			if len(*buf) > r.config.ChunkThreshold {
				// Every send races ctx so an abandoned consumer cannot
				// strand this goroutine on a full channel
				select {
				case chunkChan <- middleware.StreamChunk{Buf: buf}:
					// Ownership of the flushed buffer moves to the consumer;
					// it comes back through Release
					buf = r.pool.Get()
				case <-ctx.Done():
					return
				}
			}
		}

		select {
		case chunkChan <- middleware.StreamChunk{Buf: buf}:
			buf = nil
		case <-ctx.Done():
		}
	}()

	return middleware.StreamResponse{
		TotalCount: int64(len(msgs)),
		Filename:   meta.TicketID + "-transcript.txt",
		ChunkChan:  chunkChan,
		Release:    r.pool.Put,
		Code:       200,
	}
}

// RenderString assembles the whole transcript in one string. Intended for
// small transcripts and tests; downloads should use Stream.
func (r *Renderer) RenderString(meta Meta, msgs []common.TicketMessage) string {
	buf := r.pool.Get()
	defer r.pool.Put(buf)

	*buf = appendHeader(*buf, meta)
	for _, msg := range msgs {
		*buf = appendLine(*buf, msg)
	}

	return string(*buf)
}
