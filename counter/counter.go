package counter

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFlushInterval is the minimum time between two throttled saves.
const DefaultFlushInterval = 5 * time.Minute

// DefaultMilestones returns the counts announced by default.
func DefaultMilestones() []uint64 {
	return []uint64{100, 1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000}
}

// ErrBadCount is returned by a Persister whose stored value cannot be parsed.
var ErrBadCount = errors.New("counter: stored count is not a number")

// Persister loads and saves the query count.
type Persister interface {
	// Load returns the stored count, or zero when nothing is stored yet.
	Load(ctx context.Context) (uint64, error)
	// Save stores n.
	Save(ctx context.Context, n uint64) error
}

// Options configures a Counter.
type Options struct {
	Milestones    []uint64
	FlushInterval time.Duration
	// OnError receives errors from throttled saves, which have no caller
	// to return them to.
	OnError func(error)
}

// Option mutates Options.
type Option func(o *Options)

// WithMilestones replaces DefaultMilestones.
func WithMilestones(m ...uint64) Option {
	return func(o *Options) { o.Milestones = m }
}

// WithFlushInterval sets the minimum time between saves. Zero saves on
// every recorded query.
func WithFlushInterval(d time.Duration) Option {
	return func(o *Options) { o.FlushInterval = d }
}

// WithOnError sets the handler for throttled save errors.
func WithOnError(fn func(error)) Option {
	return func(o *Options) { o.OnError = fn }
}

// Counter is a query counter safe for concurrent use.
type Counter struct {
	persister  Persister
	milestones []uint64
	onError    func(error)
	sometimes  *rate.Sometimes

	count atomic.Uint64

	mu    sync.Mutex
	saved uint64
}

// New creates a Counter. A nil persister keeps the count in memory only.
func New(p Persister, optFns ...Option) *Counter {
	opts := Options{
		Milestones:    DefaultMilestones(),
		FlushInterval: DefaultFlushInterval,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &rate.Sometimes{Interval: opts.FlushInterval}
	if opts.FlushInterval <= 0 {
		s = &rate.Sometimes{Every: 1}
	}

	m := slices.Clone(opts.Milestones)
	slices.Sort(m)

	return &Counter{
		persister:  p,
		milestones: slices.Compact(m),
		onError:    opts.OnError,
		sometimes:  s,
	}
}

// Load reads the stored count. A stored value that cannot be parsed is
// reset to zero and saved.
func (c *Counter) Load(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	n, err := c.persister.Load(ctx)
	if errors.Is(err, ErrBadCount) {
		c.count.Store(0)
		return c.Flush(ctx)
	}
	if err != nil {
		return err
	}
	c.count.Store(n)

	c.mu.Lock()
	c.saved = n
	c.mu.Unlock()
	return nil
}

// Record counts one query and reports the new count and whether it is a
// milestone.
func (c *Counter) Record(ctx context.Context) (uint64, bool) {
	n := c.count.Add(1)
	if c.persister != nil {
		c.sometimes.Do(func() {
			if err := c.save(ctx, false); err != nil && c.onError != nil {
				c.onError(err)
			}
		})
	}
	return n, c.IsMilestone(n)
}

// Count returns the current count.
func (c *Counter) Count() uint64 { return c.count.Load() }

// IsMilestone reports whether n is a milestone.
func (c *Counter) IsMilestone(n uint64) bool {
	_, ok := slices.BinarySearch(c.milestones, n)
	return ok
}

// TryMilestone returns the current count and whether it is a milestone.
func (c *Counter) TryMilestone() (uint64, bool) {
	n := c.Count()
	return n, c.IsMilestone(n)
}

// Milestones returns the sorted milestone set.
func (c *Counter) Milestones() []uint64 { return slices.Clone(c.milestones) }

// Flush saves the current count.
func (c *Counter) Flush(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	return c.save(ctx, true)
}

func (c *Counter) save(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.count.Load()
	if !force && n == c.saved {
		return nil
	}
	if err := c.persister.Save(ctx, n); err != nil {
		return err
	}
	c.saved = n
	return nil
}
