package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pivolan/case_dashboard/config"
	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/logging"
	"github.com/pivolan/case_dashboard/transform"
)

var (
	ErrUnknownSlot = errors.New("unknown dataset")
	ErrNotLoaded   = errors.New("dataset is not loaded")
)

// Parsed is the result of reading one CSV source.
type Parsed struct {
	Headers     []string
	Records     []models.Record
	Raw         []models.Record
	Transformed bool
}

// Read opens locator, parses it and applies the legal transformation when the
// headers look like a case export.
func Read(ctx context.Context, src Opener, locator string) (*Parsed, error) {
	body, err := src.Open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	headers, records, err := ParseCSV(body)
	if err != nil {
		return &Parsed{Headers: headers}, err
	}

	if transform.IsLegalDataset(headers) {
		return &Parsed{Headers: transform.Headers(), Records: transform.TransformAll(records), Raw: records, Transformed: true}, nil
	}
	return &Parsed{Headers: headers, Records: records, Raw: records}, nil
}

type slot struct {
	cfg     config.DatasetConfig
	current *models.Dataset
	gen     uint64
	flight  *flight
}

// flight is one load of a slot. done is closed once ds is committed or the
// load was superseded by next.
type flight struct {
	gen  uint64
	done chan struct{}
	ds   *models.Dataset
	next *flight
}

// DefaultFetchTimeout bounds a single fetch and parse.
const DefaultFetchTimeout = 30 * time.Second

// Registry holds one dataset per configured tab.
// Committed datasets are never modified; every state change installs a new value.
type Registry struct {
	src   Opener
	group singleflight.Group

	// FetchTimeout bounds every fetch. Fetches do not depend on the callers' contexts.
	FetchTimeout time.Duration

	mu        sync.RWMutex
	order     []string
	slots     map[string]*slot
	listeners []func(*models.Dataset)
}

func NewRegistry(tabs []config.DatasetConfig, src Opener) *Registry {
	r := &Registry{
		src:          src,
		FetchTimeout: DefaultFetchTimeout,
		slots:        make(map[string]*slot, len(tabs)),
	}
	for _, tab := range tabs {
		r.order = append(r.order, tab.ID)
		r.slots[tab.ID] = &slot{
			cfg: tab,
			current: &models.Dataset{
				ID:          tab.ID,
				Name:        tab.Name,
				Locator:     tab.Path,
				Description: tab.Description,
				State:       models.StateLoading,
			},
		}
	}
	return r
}

// Subscribe registers fn to be called after a slot's dataset is replaced.
func (r *Registry) Subscribe(fn func(*models.Dataset)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// List returns the current dataset of every slot in configuration order.
func (r *Registry) List() []*models.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Dataset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.slots[id].current)
	}
	return out
}

func (r *Registry) Get(id string) (*models.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, id)
	}
	return s.current, nil
}

// Config returns the tab configuration of a slot.
func (r *Registry) Config(id string) (config.DatasetConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return config.DatasetConfig{}, fmt.Errorf("%w: %s", ErrUnknownSlot, id)
	}
	return s.cfg, nil
}

// Load fetches and parses the slot's CSV unless it is already loaded and force is false.
// Without force a load already in flight is joined. A forced load always reads the
// source again and supersedes older loads of the slot: the latest one wins, and
// callers of superseded loads get its result. Load failures end up in the dataset's
// error state. ctx only bounds how long the caller waits; the fetch itself keeps
// running for other callers when ctx is done.
func (r *Registry) Load(ctx context.Context, id string, force bool) (*models.Dataset, error) {
	r.mu.Lock()
	s, ok := r.slots[id]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, id)
	}
	if !force {
		if s.current.Ready() && len(s.current.Records) > 0 {
			ds := s.current
			r.mu.Unlock()
			return ds, nil
		}
		if f := s.flight; f != nil {
			r.mu.Unlock()
			return r.wait(ctx, f)
		}
	}
	s.gen++
	f := &flight{gen: s.gen, done: make(chan struct{})}
	if s.flight != nil {
		s.flight.next = f
	}
	s.flight = f
	loading := *s.current
	loading.State = models.StateLoading
	loading.Error = ""
	s.current = &loading
	locator := s.cfg.Path
	if force {
		// a forced load must not join a read that started before it was asked for
		r.group.Forget(locator)
	}
	r.mu.Unlock()

	go r.run(context.WithoutCancel(ctx), s, f, locator)
	return r.wait(ctx, f)
}

// wait blocks until f, or the load that superseded it, is committed.
func (r *Registry) wait(ctx context.Context, f *flight) (*models.Dataset, error) {
	for {
		select {
		case <-f.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if f.next == nil {
			return f.ds, nil
		}
		f = f.next
	}
}

func (r *Registry) run(ctx context.Context, s *slot, f *flight, locator string) {
	timeout := r.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	id := s.cfg.ID
	logging.Infof("Fetching data for tab %s (%s), generation %d", id, locator, f.gen)
	started := time.Now()
	v, err, shared := r.group.Do(locator, func() (interface{}, error) {
		return Read(ctx, r.src, locator)
	})

	next := &models.Dataset{
		ID:          s.cfg.ID,
		Name:        s.cfg.Name,
		Locator:     locator,
		Description: s.cfg.Description,
		Generation:  f.gen,
		LoadedAt:    time.Now(),
	}
	if err != nil {
		logging.Warnf("CSV fetch/parse error for tab %s: %v", id, err)
		next.State = models.StateError
		next.Error = Describe(err)
		if p, ok := v.(*Parsed); ok && p != nil {
			next.Headers = p.Headers
		}
	} else {
		parsed := v.(*Parsed)
		next.State = models.StateReady
		next.Headers = parsed.Headers
		next.Records = parsed.Records
		next.Raw = parsed.Raw
		next.Transformed = parsed.Transformed
	}

	r.mu.Lock()
	if s.gen != f.gen {
		latest := s.gen
		r.mu.Unlock()
		logging.Infof("Dropping stale load of tab %s: generation %d superseded by %d", id, f.gen, latest)
		close(f.done)
		return
	}
	s.current = next
	s.flight = nil
	f.ds = next
	listeners := append([]func(*models.Dataset){}, r.listeners...)
	r.mu.Unlock()

	logging.Infof("Fetch complete for tab %s: %d rows in %s (shared=%v)", id, len(next.Records), time.Since(started), shared)
	for _, fn := range listeners {
		fn(next)
	}
	close(f.done)
}

// Ensure loads the slot if needed and fails with ErrNotLoaded when the dataset
// ended up in its error state.
func (r *Registry) Ensure(ctx context.Context, id string) (*models.Dataset, error) {
	ds, err := r.Load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !ds.Ready() {
		return ds, fmt.Errorf("%w: %s", ErrNotLoaded, ds.Error)
	}
	return ds, nil
}

// LoadAll loads every slot concurrently.
func (r *Registry) LoadAll(ctx context.Context) error {
	r.mu.RLock()
	ids := append([]string{}, r.order...)
	r.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := r.Load(ctx, id, false)
			return err
		})
	}
	return g.Wait()
}
