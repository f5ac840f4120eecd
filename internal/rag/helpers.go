package rag

import (
	"time"

	"github.com/yotome/rag-assistant/internal/metrics"
)

// timed captures dependency latency for one named step. Use as
// defer s.timed("retrieval")().
func (s *service) timed(name string) func() {
	start := time.Now()
	return func() {
		metrics.CaptureExecutionMetrics(name, time.Since(start))
	}
}

func (s *service) timedQuery() func() {
	start := time.Now()
	return func() {
		metrics.CaptureQueryMetrics("chat", time.Since(start))
	}
}

func (s *service) countIngested(chunks int) {
	metrics.CountIngestedDocument(chunks)
}
