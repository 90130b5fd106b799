package speech

import (
	"context"
	"sync"
)

// Player serializes utterances for one listener. Starting a new utterance
// cancels the one in flight and waits for it to finish, so at most one is
// ever running.
type Player struct {
	synth Synthesizer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player backed by synth.
func NewPlayer(synth Synthesizer) *Player {
	return &Player{synth: synth}
}

// Speak synthesizes text after stopping any utterance still running.
func (p *Player) Speak(ctx context.Context, text string) ([]byte, error) {
	p.mu.Lock()
	p.stopLocked()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	defer func() {
		close(done)
		cancel()
		p.mu.Lock()
		if p.done == done {
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
	}()

	return p.synth.Synthesize(ctx, text)
}

// Stop cancels the running utterance, if any, and waits for it to end.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}
