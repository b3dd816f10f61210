// Package l1pref wires the host-agnostic prefetcher core into an akita
// simulated component: an L1-private TickingComponent with a top port
// (access/fill notifications in), a bottom port (prefetch-issue requests
// out), and a control port (flush/restart), in the same shape the
// teacher's TLB component is built.
package l1pref

import (
	"github.com/sarchlab/akita/v3/sim"
)

// AccessNotifyReq tells the component the host observed an access to
// Line. It is the simulated counterpart of prefetcher.OnAccess's
// arguments.
type AccessNotifyReq struct {
	sim.MsgMeta
	Line       uint64
	IP         uint64
	IsHit      bool
	AccessType int
}

// Meta returns the meta data associated with the message.
func (r *AccessNotifyReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// AccessNotifyReqBuilder builds AccessNotifyReq messages.
type AccessNotifyReqBuilder struct {
	sendTime   sim.VTimeInSec
	src, dst   sim.Port
	line       uint64
	ip         uint64
	isHit      bool
	accessType int
}

// WithSendTime sets the send time of the request to build.
func (b AccessNotifyReqBuilder) WithSendTime(t sim.VTimeInSec) AccessNotifyReqBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the request to build.
func (b AccessNotifyReqBuilder) WithSrc(src sim.Port) AccessNotifyReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b AccessNotifyReqBuilder) WithDst(dst sim.Port) AccessNotifyReqBuilder {
	b.dst = dst
	return b
}

// WithLine sets the accessed cache line of the request to build.
func (b AccessNotifyReqBuilder) WithLine(line uint64) AccessNotifyReqBuilder {
	b.line = line
	return b
}

// WithIP sets the instruction pointer of the request to build.
func (b AccessNotifyReqBuilder) WithIP(ip uint64) AccessNotifyReqBuilder {
	b.ip = ip
	return b
}

// WithIsHit sets whether the access hit in the L1 of the request to build.
func (b AccessNotifyReqBuilder) WithIsHit(isHit bool) AccessNotifyReqBuilder {
	b.isHit = isHit
	return b
}

// WithAccessType sets the access type of the request to build.
func (b AccessNotifyReqBuilder) WithAccessType(t int) AccessNotifyReqBuilder {
	b.accessType = t
	return b
}

// Build creates a new AccessNotifyReq.
func (b AccessNotifyReqBuilder) Build() *AccessNotifyReq {
	r := &AccessNotifyReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	r.Line = b.line
	r.IP = b.ip
	r.IsHit = b.isHit
	r.AccessType = b.accessType
	return r
}

// FillNotifyReq tells the component the host filled Line.
type FillNotifyReq struct {
	sim.MsgMeta
	Line        uint64
	SetID       int
	WayID       int
	WasPrefetch bool
	EvictedLine uint64
}

// Meta returns the meta data associated with the message.
func (r *FillNotifyReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// FillNotifyReqBuilder builds FillNotifyReq messages.
type FillNotifyReqBuilder struct {
	sendTime    sim.VTimeInSec
	src, dst    sim.Port
	line        uint64
	setID       int
	wayID       int
	wasPrefetch bool
	evictedLine uint64
}

// WithSendTime sets the send time of the request to build.
func (b FillNotifyReqBuilder) WithSendTime(t sim.VTimeInSec) FillNotifyReqBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the request to build.
func (b FillNotifyReqBuilder) WithSrc(src sim.Port) FillNotifyReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b FillNotifyReqBuilder) WithDst(dst sim.Port) FillNotifyReqBuilder {
	b.dst = dst
	return b
}

// WithLine sets the filled cache line of the request to build.
func (b FillNotifyReqBuilder) WithLine(line uint64) FillNotifyReqBuilder {
	b.line = line
	return b
}

// WithSetID sets the filled set index of the request to build.
func (b FillNotifyReqBuilder) WithSetID(id int) FillNotifyReqBuilder {
	b.setID = id
	return b
}

// WithWayID sets the filled way index of the request to build.
func (b FillNotifyReqBuilder) WithWayID(id int) FillNotifyReqBuilder {
	b.wayID = id
	return b
}

// WithWasPrefetch sets whether the fill satisfies a prior prefetch of the
// request to build.
func (b FillNotifyReqBuilder) WithWasPrefetch(v bool) FillNotifyReqBuilder {
	b.wasPrefetch = v
	return b
}

// WithEvictedLine sets the line evicted to make room for the fill of the
// request to build.
func (b FillNotifyReqBuilder) WithEvictedLine(line uint64) FillNotifyReqBuilder {
	b.evictedLine = line
	return b
}

// Build creates a new FillNotifyReq.
func (b FillNotifyReqBuilder) Build() *FillNotifyReq {
	r := &FillNotifyReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	r.Line = b.line
	r.SetID = b.setID
	r.WayID = b.wayID
	r.WasPrefetch = b.wasPrefetch
	r.EvictedLine = b.evictedLine
	return r
}

// PrefetchIssueReq asks the low module (the simulated L1) to fetch Line
// ahead of demand, on behalf of StreamID.
type PrefetchIssueReq struct {
	sim.MsgMeta
	Line     uint64
	StreamID int
}

// Meta returns the meta data associated with the message.
func (r *PrefetchIssueReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// PrefetchIssueReqBuilder builds PrefetchIssueReq messages.
type PrefetchIssueReqBuilder struct {
	sendTime sim.VTimeInSec
	src, dst sim.Port
	line     uint64
	streamID int
}

// WithSendTime sets the send time of the request to build.
func (b PrefetchIssueReqBuilder) WithSendTime(t sim.VTimeInSec) PrefetchIssueReqBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the request to build.
func (b PrefetchIssueReqBuilder) WithSrc(src sim.Port) PrefetchIssueReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b PrefetchIssueReqBuilder) WithDst(dst sim.Port) PrefetchIssueReqBuilder {
	b.dst = dst
	return b
}

// WithLine sets the line to prefetch of the request to build.
func (b PrefetchIssueReqBuilder) WithLine(line uint64) PrefetchIssueReqBuilder {
	b.line = line
	return b
}

// WithStreamID sets the issuing stream ID of the request to build.
func (b PrefetchIssueReqBuilder) WithStreamID(id int) PrefetchIssueReqBuilder {
	b.streamID = id
	return b
}

// Build creates a new PrefetchIssueReq.
func (b PrefetchIssueReqBuilder) Build() *PrefetchIssueReq {
	r := &PrefetchIssueReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	r.Line = b.line
	r.StreamID = b.streamID
	return r
}

// FlushReq asks the component to reset all core tables and pause intake.
type FlushReq struct {
	sim.MsgMeta
}

// Meta returns the meta data associated with the message.
func (r *FlushReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// FlushReqBuilder builds FlushReq messages.
type FlushReqBuilder struct {
	sendTime sim.VTimeInSec
	src, dst sim.Port
}

// WithSendTime sets the send time of the request to build.
func (b FlushReqBuilder) WithSendTime(t sim.VTimeInSec) FlushReqBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the request to build.
func (b FlushReqBuilder) WithSrc(src sim.Port) FlushReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b FlushReqBuilder) WithDst(dst sim.Port) FlushReqBuilder {
	b.dst = dst
	return b
}

// Build creates a new FlushReq.
func (b FlushReqBuilder) Build() *FlushReq {
	r := &FlushReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	return r
}

// FlushRsp confirms a FlushReq completed.
type FlushRsp struct {
	sim.MsgMeta
	RespondTo string
}

// Meta returns the meta data associated with the message.
func (r *FlushRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetRspTo returns the request ID that the respond is responding to.
func (r *FlushRsp) GetRspTo() string {
	return r.RespondTo
}

// FlushRspBuilder builds FlushRsp messages.
type FlushRspBuilder struct {
	sendTime sim.VTimeInSec
	src, dst sim.Port
	rspTo    string
}

// WithSendTime sets the send time of the respond to build.
func (b FlushRspBuilder) WithSendTime(t sim.VTimeInSec) FlushRspBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the respond to build.
func (b FlushRspBuilder) WithSrc(src sim.Port) FlushRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b FlushRspBuilder) WithDst(dst sim.Port) FlushRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the request ID of the respond to build.
func (b FlushRspBuilder) WithRspTo(id string) FlushRspBuilder {
	b.rspTo = id
	return b
}

// Build creates a new FlushRsp.
func (b FlushRspBuilder) Build() *FlushRsp {
	r := &FlushRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	r.RespondTo = b.rspTo
	return r
}

// RestartReq asks the component to resume intake after a flush.
type RestartReq struct {
	sim.MsgMeta
}

// Meta returns the meta data associated with the message.
func (r *RestartReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// RestartReqBuilder builds RestartReq messages.
type RestartReqBuilder struct {
	sendTime sim.VTimeInSec
	src, dst sim.Port
}

// WithSendTime sets the send time of the request to build.
func (b RestartReqBuilder) WithSendTime(t sim.VTimeInSec) RestartReqBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the request to build.
func (b RestartReqBuilder) WithSrc(src sim.Port) RestartReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b RestartReqBuilder) WithDst(dst sim.Port) RestartReqBuilder {
	b.dst = dst
	return b
}

// Build creates a new RestartReq.
func (b RestartReqBuilder) Build() *RestartReq {
	r := &RestartReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	return r
}

// RestartRsp confirms a RestartReq completed.
type RestartRsp struct {
	sim.MsgMeta
	RespondTo string
}

// Meta returns the meta data associated with the message.
func (r *RestartRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetRspTo returns the request ID that the respond is responding to.
func (r *RestartRsp) GetRspTo() string {
	return r.RespondTo
}

// RestartRspBuilder builds RestartRsp messages.
type RestartRspBuilder struct {
	sendTime sim.VTimeInSec
	src, dst sim.Port
	rspTo    string
}

// WithSendTime sets the send time of the respond to build.
func (b RestartRspBuilder) WithSendTime(t sim.VTimeInSec) RestartRspBuilder {
	b.sendTime = t
	return b
}

// WithSrc sets the source of the respond to build.
func (b RestartRspBuilder) WithSrc(src sim.Port) RestartRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the respond to build.
func (b RestartRspBuilder) WithDst(dst sim.Port) RestartRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the request ID of the respond to build.
func (b RestartRspBuilder) WithRspTo(id string) RestartRspBuilder {
	b.rspTo = id
	return b
}

// Build creates a new RestartRsp.
func (b RestartRspBuilder) Build() *RestartRsp {
	r := &RestartRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.SendTime = b.sendTime
	r.RespondTo = b.rspTo
	return r
}
