package l1pref

import "github.com/sarchlab/akita/v3/sim"

// fakePort is a hand-written test double for sim.Port. It embeds the
// interface so every method Comp does not exercise (SetConnection,
// Component, Deliver, NotifyAvailable, ...) panics on a nil call rather
// than needing to be guessed and stubbed; Comp only ever calls Peek,
// Retrieve and Send on a port, so only those three are overridden here,
// the same subset the teacher's own TLB drives on its ports.
type fakePort struct {
	sim.Port

	incoming []sim.Msg
	sent     []sim.Msg

	// failSends is decremented on each Send call while positive; Send
	// returns a *sim.SendError instead of accepting the message until it
	// reaches zero, for exercising a congested destination.
	failSends int
}

func newFakePort(msgs ...sim.Msg) *fakePort {
	return &fakePort{incoming: msgs}
}

func (p *fakePort) Peek() sim.Msg {
	if len(p.incoming) == 0 {
		return nil
	}
	return p.incoming[0]
}

func (p *fakePort) Retrieve(now sim.VTimeInSec) sim.Msg {
	if len(p.incoming) == 0 {
		return nil
	}
	msg := p.incoming[0]
	p.incoming = p.incoming[1:]
	return msg
}

func (p *fakePort) Send(msg sim.Msg) *sim.SendError {
	if p.failSends > 0 {
		p.failSends--
		return sim.NewSendError()
	}
	p.sent = append(p.sent, msg)
	return nil
}
