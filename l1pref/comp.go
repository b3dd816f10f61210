package l1pref

import (
	"log"
	"reflect"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v3/sim"
	"github.com/sarchlab/akita/v3/tracing"

	"github.com/SupurCalvinHiggins/l1dprefetcher/prefetcher"
)

// Observer receives the events the ambient telemetry stack cares about.
// The core prefetcher package never calls it — only Comp does, keeping
// coverage/pollution accounting out of the core (spec.md §1 Non-goals)
// while still letting a wrapping harness observe the run.
type Observer interface {
	OnAccess()
	OnPrefetchIssued(n int)
	OnStreamAllocated()
}

// reallocationObserver is an optional Observer extension: telemetry.Recorder
// implements it, but Observer itself only requires the base three methods
// so a minimal observer need not care about direction-flip accounting.
type reallocationObserver interface {
	OnCandidateReallocated()
}

// evictionObserver is an optional Observer extension for stream-table
// eviction accounting, same rationale as reallocationObserver.
type evictionObserver interface {
	OnStreamEvicted()
}

type noopObserver struct{}

func (noopObserver) OnAccess()            {}
func (noopObserver) OnPrefetchIssued(int) {}
func (noopObserver) OnStreamAllocated()   {}

// Comp is an L1-private prefetcher wired into an akita simulation: a
// TickingComponent with a top port (access/fill notifications in), a
// bottom port (prefetch-issue requests out to LowModule), and a control
// port (flush/restart), built the way the teacher's TLB component is
// built.
type Comp struct {
	*sim.TickingComponent

	topPort     sim.Port
	bottomPort  sim.Port
	controlPort sim.Port

	LowModule sim.Port

	numReqPerCycle int
	log2BlockSize  int

	core          *prefetcher.Prefetcher
	prefetcherCfg prefetcher.Config
	backlog       *backlogQueue

	runID    xid.ID
	observer Observer

	isPaused bool
}

// RunID returns the run-scoped correlation ID this component was built
// with (spec.md §3 [EXPANDED] "Identifiers").
func (c *Comp) RunID() xid.ID {
	return c.runID
}

// SetObserver installs the ambient telemetry sink. A nil observer (the
// default) makes every hook a no-op.
func (c *Comp) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	c.observer = o
}

func (c *Comp) obs() Observer {
	if c.observer == nil {
		return noopObserver{}
	}
	return c.observer
}

// Tick defines how the component updates state at each cycle: drain the
// control port, then (unless paused) drain notifications into the core
// and drain the resulting backlog out the bottom port.
func (c *Comp) Tick(now sim.VTimeInSec) bool {
	madeProgress := c.performCtrlReq(now)

	if !c.isPaused {
		for i := 0; i < c.numReqPerCycle; i++ {
			madeProgress = c.processTop(now) || madeProgress
		}

		for i := 0; i < c.numReqPerCycle; i++ {
			madeProgress = c.drainBacklog(now) || madeProgress
		}
	}

	return madeProgress
}

func (c *Comp) processTop(now sim.VTimeInSec) bool {
	msg := c.topPort.Peek()
	if msg == nil {
		return false
	}

	switch req := msg.(type) {
	case *AccessNotifyReq:
		return c.handleAccess(now, req)
	case *FillNotifyReq:
		return c.handleFill(now, req)
	default:
		log.Panicf("cannot process request %s", reflect.TypeOf(req))
	}

	return true
}

func (c *Comp) handleAccess(now sim.VTimeInSec, req *AccessNotifyReq) bool {
	numStreamsBefore := c.numAllocatedStreams()
	reallocsBefore := c.core.Reallocations()
	evictionsBefore := c.core.Evictions()

	if c.backlog.IsFull() {
		// Backpressure: leave the notification on the port without
		// driving the core and retry it next cycle (mirrors the
		// teacher's respondMSHREntry retry pattern).
		return false
	}

	// Lines beyond the backlog's free room are not queued.
	lines := c.core.OnAccess(req.Line, req.IP, req.IsHit, req.AccessType)
	for _, line := range lines {
		if c.backlog.Enqueue(pendingIssue{line: line}) != nil {
			break
		}
	}

	if c.numAllocatedStreams() > numStreamsBefore {
		c.obs().OnStreamAllocated()
	}
	if c.core.Reallocations() > reallocsBefore {
		if ro, ok := c.obs().(reallocationObserver); ok {
			ro.OnCandidateReallocated()
		}
	}
	if c.core.Evictions() > evictionsBefore {
		if eo, ok := c.obs().(evictionObserver); ok {
			eo.OnStreamEvicted()
		}
	}

	c.topPort.Retrieve(now)
	c.obs().OnAccess()

	tracing.TraceReqReceive(req, c)
	tracing.TraceReqComplete(req, c)

	return true
}

func (c *Comp) handleFill(now sim.VTimeInSec, req *FillNotifyReq) bool {
	c.core.OnFill(req.Line, req.SetID, req.WayID, req.WasPrefetch, req.EvictedLine)

	c.topPort.Retrieve(now)

	tracing.TraceReqReceive(req, c)
	tracing.TraceReqComplete(req, c)

	return true
}

func (c *Comp) numAllocatedStreams() int {
	n := 0
	for i := 0; i < c.core.NumStreamSlots(); i++ {
		if _, ok := c.core.StreamSnapshot(i); ok {
			n++
		}
	}
	return n
}

func (c *Comp) drainBacklog(now sim.VTimeInSec) bool {
	item, ok := c.backlog.Peek()
	if !ok {
		return false
	}

	req := PrefetchIssueReqBuilder{}.
		WithSendTime(now).
		WithSrc(c.bottomPort).
		WithDst(c.LowModule).
		WithLine(item.line).
		WithStreamID(item.streamID).
		Build()

	err := c.bottomPort.Send(req)
	if err != nil {
		return false
	}

	c.backlog.Dequeue()
	c.obs().OnPrefetchIssued(1)

	tracing.TraceReqInitiate(req, c, tracing.MsgIDAtReceiver(req, c))

	return true
}

func (c *Comp) performCtrlReq(now sim.VTimeInSec) bool {
	item := c.controlPort.Peek()
	if item == nil {
		return false
	}

	switch req := item.(type) {
	case *FlushReq:
		return c.handleFlush(now, req)
	case *RestartReq:
		return c.handleRestart(now, req)
	default:
		log.Panicf("cannot process request %s", reflect.TypeOf(req))
	}

	return true
}

func (c *Comp) handleFlush(now sim.VTimeInSec, req *FlushReq) bool {
	rsp := FlushRspBuilder{}.
		WithSrc(c.controlPort).
		WithDst(req.Src).
		WithSendTime(now).
		WithRspTo(req.ID).
		Build()

	err := c.controlPort.Send(rsp)
	if err != nil {
		return false
	}

	c.controlPort.Retrieve(now)

	c.core = prefetcher.New(c.prefetcherCfg)
	c.core.Initialize()
	c.backlog.Reset()
	c.isPaused = true

	tracing.TraceReqReceive(req, c)
	tracing.TraceReqComplete(req, c)

	return true
}

func (c *Comp) handleRestart(now sim.VTimeInSec, req *RestartReq) bool {
	rsp := RestartRspBuilder{}.
		WithSendTime(now).
		WithSrc(c.controlPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		Build()

	err := c.controlPort.Send(rsp)
	if err != nil {
		return false
	}

	c.controlPort.Retrieve(now)
	c.isPaused = false

	for c.topPort.Retrieve(now) != nil {
	}
	for c.bottomPort.Retrieve(now) != nil {
	}

	tracing.TraceReqReceive(req, c)
	tracing.TraceReqComplete(req, c)

	return true
}
