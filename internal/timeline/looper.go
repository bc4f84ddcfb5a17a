package timeline

import (
	"sync"
	"time"
)

// Player is the external video player surface the preview loop drives. The
// hosted player exposes no end-of-range event, so playback position is
// polled.
type Player interface {
	Play()
	Pause()
	SeekTo(seconds float64)
	CurrentTime() float64
}

// DefaultPollInterval is the playback-position polling period.
const DefaultPollInterval = 100 * time.Millisecond

// Looper previews the selected range on a Player: seek to start, play, and
// watch the position until it reaches the end of the range.
type Looper struct {
	player   Player
	interval time.Duration
}

// NewLooper creates a Looper polling at the given interval, or
// DefaultPollInterval when interval is not positive.
func NewLooper(p Player, interval time.Duration) *Looper {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Looper{player: p, interval: interval}
}

// PreviewHandle cancels a running preview. Previews are never
// fire-and-forget: the caller owns the handle and stops it on teardown.
type PreviewHandle struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop cancels the preview. Safe to call multiple times and after the
// preview finished on its own.
func (h *PreviewHandle) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Done is closed when the polling loop has exited, whether by Stop or by
// reaching the end of a non-looping preview.
func (h *PreviewHandle) Done() <-chan struct{} {
	return h.done
}

// Start seeks to start, plays, and polls the position. Reaching end either
// seeks back to start (loop mode) or pauses and finishes. The returned
// handle cancels the poll.
func (l *Looper) Start(start, end float64, loop bool) *PreviewHandle {
	h := &PreviewHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	l.player.SeekTo(start)
	l.player.Play()

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				if l.player.CurrentTime() >= end {
					if loop {
						l.player.SeekTo(start)
						continue
					}
					l.player.Pause()
					return
				}
			}
		}
	}()

	return h
}
