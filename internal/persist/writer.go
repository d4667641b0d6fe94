package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var ErrWriterStopped = errors.New("persist: writer stopped")

// Port is the durable side of a Writer.
type Port[T any] interface {
	Save(ctx context.Context, v T) error
}

type Options struct {
	Name           string
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	WriteTimeout   time.Duration
	Logger         *log.Logger
	// OnFailure is called from the writer goroutine once a snapshot has
	// exhausted its retries.
	OnFailure func(err error)
}

func DefaultOptions() Options {
	return Options{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		WriteTimeout:   5 * time.Second,
	}
}

// Writer persists the most recently submitted value in the background.
// Values submitted while a write is in flight are coalesced: only the latest
// one is written next.
type Writer[T any] struct {
	port Port[T]
	opts Options

	mu      sync.Mutex
	pending T
	dirty   bool
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool

	written uint64
	failed  uint64
}

func NewWriter[T any](port Port[T], opts Options) *Writer[T] {
	def := DefaultOptions()
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = def.InitialBackoff
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = opts.InitialBackoff
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Writer[T]{
		port:   port,
		opts:   opts,
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (w *Writer[T]) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

// Stop writes any pending value once more and waits for the loop to exit.
func (w *Writer[T]) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	if !w.started {
		w.stopped = true
		w.mu.Unlock()
		w.drain()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

// Submit never blocks on I/O.
func (w *Writer[T]) Submit(v T) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWriterStopped
	}
	w.pending = v
	w.dirty = true
	w.signalWakeup()
	return nil
}

func (w *Writer[T]) Written() uint64 {
	return atomic.LoadUint64(&w.written)
}

func (w *Writer[T]) Failed() uint64 {
	return atomic.LoadUint64(&w.failed)
}

func (w *Writer[T]) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	for {
		select {
		case <-w.wakeup:
		case <-w.stopCh:
			w.drain()
			return
		}

		v, ok := w.take()
		if !ok {
			continue
		}
		var stopping bool
		timer, stopping = w.writeWithRetry(v, timer)
		if stopping {
			w.drain()
			return
		}
	}
}

func (w *Writer[T]) writeWithRetry(v T, timer *time.Timer) (*time.Timer, bool) {
	backoff := w.opts.InitialBackoff
	var err error
	for attempt := 0; ; attempt++ {
		if err = w.save(v); err == nil {
			atomic.AddUint64(&w.written, 1)
			return timer, false
		}
		if attempt >= w.opts.MaxRetries {
			break
		}
		w.opts.Logger.Debug("persist write failed, retrying", "partition", w.opts.Name, "attempt", attempt+1, "backoff", backoff, "err", err)
		if w.hasNewer() {
			// A newer snapshot supersedes this one; retry with that instead.
			return timer, false
		}
		timer = resetTimer(timer, backoff)
		select {
		case <-timer.C:
		case <-w.stopCh:
			stopTimer(timer)
			w.fail(err, attempt+1)
			return timer, true
		}
		backoff *= 2
		if backoff > w.opts.MaxBackoff {
			backoff = w.opts.MaxBackoff
		}
	}
	w.fail(err, w.opts.MaxRetries+1)
	return timer, false
}

func (w *Writer[T]) fail(err error, attempts int) {
	atomic.AddUint64(&w.failed, 1)
	w.opts.Logger.Warn("persist write gave up", "partition", w.opts.Name, "attempts", attempts, "err", err)
	if w.opts.OnFailure != nil {
		w.opts.OnFailure(err)
	}
}

func (w *Writer[T]) save(v T) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.opts.WriteTimeout)
	defer cancel()
	return w.port.Save(ctx, v)
}

// drain makes one final attempt for whatever is still pending.
func (w *Writer[T]) drain() {
	v, ok := w.take()
	if !ok {
		return
	}
	if err := w.save(v); err != nil {
		w.fail(err, 1)
		return
	}
	atomic.AddUint64(&w.written, 1)
}

func (w *Writer[T]) take() (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var zero T
	if !w.dirty {
		return zero, false
	}
	v := w.pending
	w.pending = zero
	w.dirty = false
	return v, true
}

func (w *Writer[T]) hasNewer() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

func (w *Writer[T]) signalWakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
