package transcript

import (
	"testing"
	"time"

	"helpdesk/common"
)

func BenchmarkBufferPoolGetPut(b *testing.B) {
	pool := NewBufferPool(16 * 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := pool.Get()
		*buf = append(*buf, "[2025-03-01 12:00:00] alice: hello there\n"...)
		pool.Put(buf)
	}
}

func BenchmarkRenderString(b *testing.B) {
	r := NewRenderer(DefaultConfig())
	msgs := make([]common.TicketMessage, 200)
	for i := range msgs {
		msgs[i] = common.TicketMessage{
			Username:  "alice",
			Content:   "a reasonably sized transcript line for benchmarking",
			Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	meta := Meta{TicketID: "ticket-0001", CreatedBy: "100"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.RenderString(meta, msgs)
	}
}
