// Package trace records kernel timing events off the hot path.
//
// A Tracer is either nil (every operation is a no-op) or backed by a bounded
// channel drained by a single background goroutine, so instrumented kernels
// never block on I/O. Records are written as CSV or through the structured
// logger.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const eventBufferSize = 256

type record struct {
	name   string
	start  time.Time
	finish time.Time
}

// Tracer collects timed events. The nil Tracer is valid and disabled.
type Tracer struct {
	ch    chan record
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
	epoch time.Time

	mu  sync.Mutex
	err error
}

// Event is one started measurement. The zero Event is valid and disabled.
type Event struct {
	tr    *Tracer
	start time.Time
}

// NewFileTracer records CSV events to path. The path "-" routes events to
// the structured logger instead.
func NewFileTracer(path string) (*Tracer, error) {
	if path == "-" {
		return NewLogTracer(log.Logger), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: create %s: %w", path, err)
	}
	t := newTracer()
	go t.runCSV(f, f)
	return t, nil
}

// NewWriterTracer records CSV events to w.
func NewWriterTracer(w io.Writer) *Tracer {
	t := newTracer()
	go t.runCSV(w, nil)
	return t
}

// NewLogTracer records events through logger at trace level.
func NewLogTracer(logger zerolog.Logger) *Tracer {
	t := newTracer()
	go t.runLog(logger)
	return t
}

func newTracer() *Tracer {
	return &Tracer{
		ch:    make(chan record, eventBufferSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		epoch: time.Now(),
	}
}

// Start begins an event. Call Finish on the result to record it. Finishing
// the same Event more than once records separate events sharing a start.
func (t *Tracer) Start() Event {
	if t == nil {
		return Event{}
	}
	return Event{tr: t, start: time.Now()}
}

// Span begins a named event and returns the func that finishes it, for use
// with defer.
func (t *Tracer) Span(name string) func() {
	ev := t.Start()
	return func() { ev.Finish(name) }
}

// Finish records the event under name. Events finished after Close are
// dropped.
func (e Event) Finish(name string) {
	if e.tr == nil {
		return
	}
	rec := record{name: name, start: e.start, finish: time.Now()}
	select {
	case <-e.tr.stop:
	case e.tr.ch <- rec:
	}
}

// Close flushes buffered events and stops the background goroutine. It is
// safe to call more than once; later calls return the first error.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}
	t.once.Do(func() {
		close(t.stop)
		<-t.done
	})
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tracer) setErr(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	if t.err == nil {
		t.err = err
	}
	t.mu.Unlock()
}

func (t *Tracer) runCSV(w io.Writer, closer io.Closer) {
	defer close(t.done)
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	t.setErr(cw.Write([]string{"Event name", "Start time (sec)", "Finish time (sec)", "Duration (sec)"}))
	for rec := range t.drain() {
		t.setErr(cw.Write([]string{
			rec.name,
			seconds(rec.start.Sub(t.epoch)),
			seconds(rec.finish.Sub(t.epoch)),
			seconds(rec.finish.Sub(rec.start)),
		}))
	}
	cw.Flush()
	t.setErr(cw.Error())
	if closer != nil {
		t.setErr(closer.Close())
	}
}

func (t *Tracer) runLog(logger zerolog.Logger) {
	defer close(t.done)
	for rec := range t.drain() {
		logger.Trace().
			Str("event", rec.name).
			Msgf("%s seconds", seconds(rec.finish.Sub(rec.start)))
	}
}

// drain yields records until stop is closed, then empties the buffer.
func (t *Tracer) drain() <-chan record {
	out := make(chan record)
	go func() {
		defer close(out)
		for {
			select {
			case rec := <-t.ch:
				out <- rec
			case <-t.stop:
				for {
					select {
					case rec := <-t.ch:
						out <- rec
					default:
						return
					}
				}
			}
		}
	}()
	return out
}

func seconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d.%09d", d/time.Second, d%time.Second)
}
