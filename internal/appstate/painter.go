package appstate

import (
	"context"
	"sync"
)

// painter draws frames on its own goroutine. A newer frame replaces one that
// has not started yet and cancels the one being drawn, up to
// frameDropThreshold times in a row so a steady stream of events still
// produces output.
type painter struct {
	draw func(context.Context, paintState)

	mu     sync.Mutex
	cancel context.CancelFunc
	drops  int

	ch   chan paintState
	done chan struct{}
}

func newPainter(draw func(context.Context, paintState)) *painter {
	p := &painter{
		draw: draw,
		ch:   make(chan paintState, 1),
		done: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *painter) loop() {
	defer close(p.done)
	for st := range p.ch {
		ctx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		p.draw(ctx, st)
		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.drops = 0
		}
		p.mu.Unlock()
		cancel()
	}
}

// submit queues st. It must only be called from the event goroutine.
func (p *painter) submit(st paintState) {
	p.mu.Lock()
	if p.cancel != nil && p.drops < frameDropThreshold {
		p.cancel()
		p.drops++
	}
	p.mu.Unlock()
	select {
	case p.ch <- st:
	default:
		select {
		case <-p.ch:
		default:
		}
		p.ch <- st
	}
}

// interrupt cancels the frame being drawn, if any.
func (p *painter) interrupt() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}

// stop cancels any frame in progress and returns once the goroutine has
// exited. No draw call runs after stop returns.
func (p *painter) stop() {
	p.interrupt()
	close(p.ch)
	<-p.done
}
