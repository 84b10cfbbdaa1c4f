package catalog

import (
	"sync/atomic"
	"time"
)

// Observer defines hooks for observability and metrics collection.
// The dispatcher calls these after every operation.
type Observer interface {
	// OnList is called after a list operation.
	OnList(collection string, count int, duration time.Duration)

	// OnGet is called after a keyed read. synthesized is true when no stored
	// record matched and one was fabricated.
	OnGet(collection string, synthesized bool, duration time.Duration)

	// OnCreate is called after a successful create.
	OnCreate(collection string, duration time.Duration)

	// OnUpdate is called after a successful update.
	OnUpdate(collection string, duration time.Duration)

	// OnDelete is called after a successful delete with the number of removed records.
	OnDelete(collection string, removed int, duration time.Duration)

	// OnError is called when an operation fails.
	OnError(collection string, operation string, err error)

	// OnReset is called after a catalog reset.
	OnReset(collections []string, duration time.Duration)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnList(string, int, time.Duration)   {}
func (NoopObserver) OnGet(string, bool, time.Duration)   {}
func (NoopObserver) OnCreate(string, time.Duration)      {}
func (NoopObserver) OnUpdate(string, time.Duration)      {}
func (NoopObserver) OnDelete(string, int, time.Duration) {}
func (NoopObserver) OnError(string, string, error)       {}
func (NoopObserver) OnReset([]string, time.Duration)     {}

// Observers fans every hook out to several observers.
type Observers []Observer

func (o Observers) OnList(c string, n int, d time.Duration) {
	for _, ob := range o {
		ob.OnList(c, n, d)
	}
}

func (o Observers) OnGet(c string, s bool, d time.Duration) {
	for _, ob := range o {
		ob.OnGet(c, s, d)
	}
}

func (o Observers) OnCreate(c string, d time.Duration) {
	for _, ob := range o {
		ob.OnCreate(c, d)
	}
}

func (o Observers) OnUpdate(c string, d time.Duration) {
	for _, ob := range o {
		ob.OnUpdate(c, d)
	}
}

func (o Observers) OnDelete(c string, n int, d time.Duration) {
	for _, ob := range o {
		ob.OnDelete(c, n, d)
	}
}

func (o Observers) OnError(c, op string, err error) {
	for _, ob := range o {
		ob.OnError(c, op, err)
	}
}

func (o Observers) OnReset(cs []string, d time.Duration) {
	for _, ob := range o {
		ob.OnReset(cs, d)
	}
}

// Counters is a thread-safe in-memory Observer backing the admin stats
// endpoint. All counters use atomic operations.
type Counters struct {
	listCount       atomic.Int64
	getCount        atomic.Int64
	synthesizeCount atomic.Int64
	createCount     atomic.Int64
	updateCount     atomic.Int64
	deleteCount     atomic.Int64
	removedCount    atomic.Int64
	errorCount      atomic.Int64
	resetCount      atomic.Int64
	totalLatencyNs  atomic.Int64
}

// NewCounters creates a new Counters observer.
func NewCounters() *Counters {
	return &Counters{}
}

func (m *Counters) OnList(_ string, _ int, d time.Duration) {
	m.listCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *Counters) OnGet(_ string, synthesized bool, d time.Duration) {
	m.getCount.Add(1)
	if synthesized {
		m.synthesizeCount.Add(1)
	}
	m.totalLatencyNs.Add(int64(d))
}

func (m *Counters) OnCreate(_ string, d time.Duration) {
	m.createCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *Counters) OnUpdate(_ string, d time.Duration) {
	m.updateCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *Counters) OnDelete(_ string, removed int, d time.Duration) {
	m.deleteCount.Add(1)
	m.removedCount.Add(int64(removed))
	m.totalLatencyNs.Add(int64(d))
}

func (m *Counters) OnError(string, string, error) {
	m.errorCount.Add(1)
}

func (m *Counters) OnReset(_ []string, d time.Duration) {
	m.resetCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

// Snapshot returns a copy of the current counters.
func (m *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		ListCount:       m.listCount.Load(),
		GetCount:        m.getCount.Load(),
		SynthesizeCount: m.synthesizeCount.Load(),
		CreateCount:     m.createCount.Load(),
		UpdateCount:     m.updateCount.Load(),
		DeleteCount:     m.deleteCount.Load(),
		RemovedCount:    m.removedCount.Load(),
		ErrorCount:      m.errorCount.Load(),
		ResetCount:      m.resetCount.Load(),
		TotalLatency:    time.Duration(m.totalLatencyNs.Load()),
	}
}

// CountersSnapshot is a point-in-time copy of Counters.
type CountersSnapshot struct {
	ListCount       int64         `json:"listCount"`
	GetCount        int64         `json:"getCount"`
	SynthesizeCount int64         `json:"synthesizeCount"`
	CreateCount     int64         `json:"createCount"`
	UpdateCount     int64         `json:"updateCount"`
	DeleteCount     int64         `json:"deleteCount"`
	RemovedCount    int64         `json:"removedCount"`
	ErrorCount      int64         `json:"errorCount"`
	ResetCount      int64         `json:"resetCount"`
	TotalLatency    time.Duration `json:"totalLatencyNs"`
}

// TotalOperations returns the number of successful operations.
func (s CountersSnapshot) TotalOperations() int64 {
	return s.ListCount + s.GetCount + s.CreateCount + s.UpdateCount + s.DeleteCount
}
