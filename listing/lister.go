package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/octabyte/medtrack-gommon/api"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

var (
	// ErrStale is returned by Load when a newer load started before this
	// one finished; its result was discarded.
	ErrStale  = errors.New("listing: superseded by a newer request")
	ErrClosed = errors.New("listing: closed")
)

type Fetch[T any] func(ctx context.Context, params api.ListParams) (models.Page[T], error)

// State is a snapshot of a list.
type State[T any] struct {
	Params  api.ListParams
	Page    models.Page[T]
	Err     error
	Loading bool
}

type Options[T any] struct {
	Debounce time.Duration
	// OnChange receives a snapshot after every applied result.
	OnChange func(State[T])
	Logger   *zap.Logger
}

// Lister owns the page number and filters of one list. Changing a filter
// sends the list back to page 1. Only the latest load may write results.
type Lister[T any] struct {
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	fetch    Fetch[T]
	onChange func(State[T])
	log      *zap.Logger
	search   *Debouncer[string]

	state State[T]
	// wanted accumulates requested changes; state.Params only moves on a
	// successful fetch.
	wanted api.ListParams
	seq    uint64
	closed bool
}

// NewLister binds a list to fetch. ctx scopes debounced loads; Close cancels
// it.
func NewLister[T any](ctx context.Context, fetch Fetch[T], opts Options[T]) *Lister[T] {
	ctx, cancel := context.WithCancel(ctx)
	l := &Lister[T]{
		ctx:      ctx,
		cancel:   cancel,
		fetch:    fetch,
		onChange: opts.OnChange,
		log:      logger.OrGlobal(opts.Logger).Named("listing"),
	}
	l.state.Params.Page = 1
	l.wanted = l.state.Params
	l.state.Page = models.Page[T]{Number: 1, Items: []T{}}
	l.search = NewDebouncer(opts.Debounce, func(text string) {
		if err := l.SetSearch(l.ctx, text); err != nil && !errors.Is(err, ErrStale) && !errors.Is(err, ErrClosed) {
			l.log.Debug("debounced search failed", zap.Error(err))
		}
	})
	return l
}

func (l *Lister[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches the current page with the current filters.
func (l *Lister[T]) Load(ctx context.Context) error {
	return l.update(ctx, func(*api.ListParams) {})
}

// Type queues a search; the fetch happens once typing pauses for the
// debounce window.
func (l *Lister[T]) Type(text string) {
	l.search.Call(text)
}

func (l *Lister[T]) SetSearch(ctx context.Context, text string) error {
	return l.update(ctx, func(p *api.ListParams) {
		p.Search = text
		p.Page = 1
	})
}

func (l *Lister[T]) SetStatus(ctx context.Context, status enums.AppointmentStatus) error {
	return l.update(ctx, func(p *api.ListParams) {
		p.Status = status
		p.Page = 1
	})
}

func (l *Lister[T]) SetDateRange(ctx context.Context, start, end time.Time) error {
	return l.update(ctx, func(p *api.ListParams) {
		p.StartDate, p.EndDate = start, end
		p.Page = 1
	})
}

// Next moves forward when the last page said more exist.
func (l *Lister[T]) Next(ctx context.Context) error {
	l.mu.Lock()
	hasNext := l.state.Page.HasNext
	l.mu.Unlock()
	if !hasNext {
		return nil
	}
	return l.update(ctx, func(p *api.ListParams) { p.Page++ })
}

func (l *Lister[T]) Prev(ctx context.Context) error {
	l.mu.Lock()
	hasPrev := l.state.Params.Page > 1
	l.mu.Unlock()
	if !hasPrev {
		return nil
	}
	return l.update(ctx, func(p *api.ListParams) { p.Page-- })
}

// Apply replaces every filter and the page at once, e.g. to restore a saved
// position.
func (l *Lister[T]) Apply(ctx context.Context, params api.ListParams) error {
	return l.update(ctx, func(p *api.ListParams) {
		*p = params
		if p.Page < 1 {
			p.Page = 1
		}
	})
}

// Goto jumps to page n.
func (l *Lister[T]) Goto(ctx context.Context, n int) error {
	return l.update(ctx, func(p *api.ListParams) {
		if n < 1 {
			n = 1
		}
		p.Page = n
	})
}

func (l *Lister[T]) update(ctx context.Context, mutate func(*api.ListParams)) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	mutate(&l.wanted)
	l.seq++
	seq := l.seq
	params := l.wanted
	l.state.Loading = true
	l.mu.Unlock()

	page, err := l.fetch(ctx, params)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if seq != l.seq {
		l.mu.Unlock()
		l.log.Debug("dropped stale page", zap.Int("page", params.Page))
		return ErrStale
	}
	l.state.Loading = false
	l.state.Err = err
	if err == nil {
		if page.Items == nil {
			page.Items = []T{}
		}
		l.state.Params = params
		l.state.Page = page
	} else {
		l.wanted = l.state.Params
	}
	snapshot := l.state
	onChange := l.onChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
	return err
}

// Close stops pending searches and discards every in-flight result.
func (l *Lister[T]) Close() {
	l.search.Stop()

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.cancel()
}
