package l1pref

import (
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v3/sim"

	"github.com/SupurCalvinHiggins/l1dprefetcher/prefetcher"
)

// A Builder can build a Comp.
type Builder struct {
	engine         sim.Engine
	freq           sim.Freq
	numReqPerCycle int
	lowModule      sim.Port
	lenBacklog     int
	log2BlockSize  int
	prefetcherCfg  prefetcher.Config
}

// MakeBuilder returns a Builder seeded with the teacher's defaults,
// repurposed for a prefetcher component.
func MakeBuilder() Builder {
	return Builder{
		freq:           1 * sim.GHz,
		numReqPerCycle: 4,
		lenBacklog:     64,
		log2BlockSize:  6,
		prefetcherCfg:  prefetcher.DefaultConfig(),
	}
}

// WithEngine sets the engine that the component uses.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the freq the component uses.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithNumReqPerCycle sets the number of requests per cycle the component
// drains from each port.
func (b Builder) WithNumReqPerCycle(n int) Builder {
	b.numReqPerCycle = n
	return b
}

// WithLowModule sets the port that receives PrefetchIssueReq messages.
func (b Builder) WithLowModule(lowModule sim.Port) Builder {
	b.lowModule = lowModule
	return b
}

// WithLenBacklog sets the capacity of the pending-prefetch backlog queue.
func (b Builder) WithLenBacklog(n int) Builder {
	b.lenBacklog = n
	return b
}

// WithLog2BlockSize sets the log2 of the cache block size used to convert
// addresses to lines.
func (b Builder) WithLog2BlockSize(n int) Builder {
	b.log2BlockSize = n
	return b
}

// WithPrefetcherConfig sets the core prefetcher's table sizes and retune
// tuning.
func (b Builder) WithPrefetcherConfig(cfg prefetcher.Config) Builder {
	b.prefetcherCfg = cfg
	return b
}

// Build creates a new Comp.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.runID = xid.New()
	c.numReqPerCycle = b.numReqPerCycle
	c.LowModule = b.lowModule
	c.log2BlockSize = b.log2BlockSize
	c.prefetcherCfg = b.prefetcherCfg
	c.core = prefetcher.New(b.prefetcherCfg)
	c.backlog = newBacklogQueue(b.lenBacklog)

	b.createPorts(name, c)

	return c
}

func (b Builder) createPorts(name string, c *Comp) {
	c.topPort = sim.NewLimitNumMsgPort(c, b.numReqPerCycle, name+".TopPort")
	c.AddPort("Top", c.topPort)

	c.bottomPort = sim.NewLimitNumMsgPort(c, b.numReqPerCycle, name+".BottomPort")
	c.AddPort("Bottom", c.bottomPort)

	c.controlPort = sim.NewLimitNumMsgPort(c, 1, name+".ControlPort")
	c.AddPort("Control", c.controlPort)
}
