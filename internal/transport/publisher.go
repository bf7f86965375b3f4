// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"

	applog "audioctl/internal/log"
)

// Source produces the payload for one publish tick.
type Source func() (any, error)

// Envelope wraps every published payload.
type Envelope struct {
	Sequence  uint32 `json:"seq"`       // Monotonically increasing per Publisher.
	Timestamp int64  `json:"timestamp"` // Nanoseconds since epoch.
	Data      any    `json:"data"`
}

// Publisher periodically pulls a payload from a Source, wraps it in an
// Envelope and sends it through a Transport. It runs in a separate goroutine
// managed by Start and Stop.
type Publisher struct {
	transport Transport
	source    Source
	interval  time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum uint32
}

// NewPublisher creates a Publisher. If interval is not positive it defaults
// to one second.
func NewPublisher(interval time.Duration, t Transport, source Source) (*Publisher, error) {
	if t == nil {
		return nil, fmt.Errorf("Publisher: transport cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("Publisher: source cannot be nil")
	}
	if interval <= 0 {
		interval = time.Second
		applog.Warnf("Publisher: Invalid interval provided, defaulting to %s", interval)
	}
	return &Publisher{
		transport: t,
		source:    source,
		interval:  interval,
	}, nil
}

// Start publishes once immediately, then on every tick until Stop is called.
// Calling Start on a running Publisher is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("Publisher: Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Debugf("Publisher: goroutine started (Interval: %s)", p.interval)
		p.Publish()
		for {
			select {
			case <-ticker.C:
				p.Publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it to
// exit. It is safe to call Stop multiple times.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Debugf("Publisher: goroutine finished.")
	return nil
}

// Publish pulls one payload and sends it. Source and transport errors are
// logged and the tick is skipped.
func (p *Publisher) Publish() {
	data, err := p.source()
	if err != nil {
		applog.Errorf("Publisher: Error reading source: %v", err)
		return
	}

	p.sequenceNum++
	env := Envelope{
		Sequence:  p.sequenceNum,
		Timestamp: time.Now().UnixNano(),
		Data:      data,
	}
	if err := p.transport.Send(env); err != nil {
		applog.Warnf("Publisher: Error sending payload %d: %v", env.Sequence, err)
		return
	}
	applog.Debugf("Publisher: Sent payload %d", env.Sequence)
}

// Close stops the publisher and closes its transport.
func (p *Publisher) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.transport.Close()
}

// Ensure Publisher satisfies the io.Closer interface at compile time.
var _ interface{ Close() error } = (*Publisher)(nil)
