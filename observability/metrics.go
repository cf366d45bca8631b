package observability

import "sync/atomic"

// Metrics aggregates server counters. All fields are updated atomically
// from connection goroutines and read by the heartbeat worker.
type Metrics struct {
	ConnectionsAccepted uint64
	ConnectionsClosed   uint64
	FramesDecoded       uint64
	FramesRejected      uint64
	RepliesSent         uint64
	RepliesDropped      uint64
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	ConnectionsAccepted uint64
	ConnectionsClosed   uint64
	FramesDecoded       uint64
	FramesRejected      uint64
	RepliesSent         uint64
	RepliesDropped      uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncrConnectionsAccepted() { atomic.AddUint64(&m.ConnectionsAccepted, 1) }
func (m *Metrics) IncrConnectionsClosed()   { atomic.AddUint64(&m.ConnectionsClosed, 1) }
func (m *Metrics) IncrFramesDecoded()       { atomic.AddUint64(&m.FramesDecoded, 1) }
func (m *Metrics) IncrFramesRejected()      { atomic.AddUint64(&m.FramesRejected, 1) }
func (m *Metrics) IncrRepliesSent()         { atomic.AddUint64(&m.RepliesSent, 1) }
func (m *Metrics) IncrRepliesDropped()      { atomic.AddUint64(&m.RepliesDropped, 1) }

func (m *Metrics) GetSnapshot() Snapshot {
	return Snapshot{
		ConnectionsAccepted: atomic.LoadUint64(&m.ConnectionsAccepted),
		ConnectionsClosed:   atomic.LoadUint64(&m.ConnectionsClosed),
		FramesDecoded:       atomic.LoadUint64(&m.FramesDecoded),
		FramesRejected:      atomic.LoadUint64(&m.FramesRejected),
		RepliesSent:         atomic.LoadUint64(&m.RepliesSent),
		RepliesDropped:      atomic.LoadUint64(&m.RepliesDropped),
	}
}
