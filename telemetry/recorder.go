// Package telemetry counts run-level prefetcher statistics and exposes
// them over HTTP and a sqlite-backed run history, mirroring the shape of
// the akita framework's own monitoring and tracing packages.
package telemetry

import (
	"sync"

	"github.com/rs/xid"
)

// Recorder implements l1pref.Observer, accumulating run-wide counters.
// It never touches the prefetcher core directly; its methods are called
// by the l1pref shell and by the cmd/prefetchsim run command.
type Recorder struct {
	runID xid.ID

	mu                  sync.Mutex
	accesses            uint64
	prefetchesIssued    uint64
	streamsAllocated    uint64
	streamsEvicted      uint64
	candidateReallocs   uint64
}

// NewRecorder creates a Recorder identified by a fresh run ID.
func NewRecorder() *Recorder {
	return &Recorder{runID: xid.New()}
}

// RunID returns the identifier this recorder's counters are filed under.
func (r *Recorder) RunID() xid.ID {
	return r.runID
}

// OnAccess implements l1pref.Observer.
func (r *Recorder) OnAccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accesses++
}

// OnPrefetchIssued implements l1pref.Observer.
func (r *Recorder) OnPrefetchIssued(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefetchesIssued += uint64(n)
}

// OnStreamAllocated implements l1pref.Observer.
func (r *Recorder) OnStreamAllocated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamsAllocated++
}

// OnStreamEvicted records a stream table slot being reclaimed for a new
// candidate promotion. l1pref calls this in addition to the base
// Observer methods when it can detect the eviction (see Comp.handleAccess).
func (r *Recorder) OnStreamEvicted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamsEvicted++
}

// OnCandidateReallocated records a direction-flip candidate reallocation.
func (r *Recorder) OnCandidateReallocated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidateReallocs++
}

// Snapshot is a point-in-time, race-free copy of a Recorder's counters.
type Snapshot struct {
	RunID             string `json:"run_id"`
	Accesses          uint64 `json:"accesses"`
	PrefetchesIssued  uint64 `json:"prefetches_issued"`
	StreamsAllocated  uint64 `json:"streams_allocated"`
	StreamsEvicted    uint64 `json:"streams_evicted"`
	CandidateRealloc  uint64 `json:"candidate_reallocations"`
}

// Snapshot returns the current counter values.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		RunID:            r.runID.String(),
		Accesses:         r.accesses,
		PrefetchesIssued: r.prefetchesIssued,
		StreamsAllocated: r.streamsAllocated,
		StreamsEvicted:   r.streamsEvicted,
		CandidateRealloc: r.candidateReallocs,
	}
}
