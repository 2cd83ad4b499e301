package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"
	"golang.org/x/sync/singleflight"

	"github.com/nirman-app/nirman/model"
	"github.com/nirman-app/nirman/weather"
)

// Source the store reads the dashboard needs
type Source interface {
	PlansOn(day time.Time) ([]model.Plan, error)
	DelayedWorkflows() ([]model.Workflow, error)
	Projects() ([]model.Project, error)
	Subscribe(table string, buffer int) (<-chan model.Event, func())
}

// WeatherSource the weather provider read
type WeatherSource interface {
	Current(ctx context.Context) (weather.Snapshot, error)
}

// Snapshot one joint load of the four dashboard panels. A panel whose
// fetch failed keeps its zero value; the failure text lands in Errors.
type Snapshot struct {
	Plans     []model.Plan      `json:"plans"`
	Workflows []model.Workflow  `json:"workflows"`
	Projects  []model.Project   `json:"projects"`
	Markers   []model.Marker    `json:"markers"`
	Weather   *weather.Snapshot `json:"weather,omitempty"`
	LoadedAt  time.Time         `json:"loaded_at"`
	Errors    []string          `json:"errors,omitempty"`
}

// Loader assembles dashboard snapshots and refreshes them on plan
// change notifications.
type Loader struct {
	source  Source
	weather WeatherSource

	group   singleflight.Group
	mu      sync.RWMutex
	current Snapshot
	loading bool
}

// NewLoader create a loader over the store and the weather provider
func NewLoader(source Source, weatherSource WeatherSource) *Loader {
	return &Loader{source: source, weather: weatherSource}
}

// Loading reports whether a batch load is in flight. One coarse flag
// covers the whole batch.
func (loader *Loader) Loading() bool {
	loader.mu.RLock()
	defer loader.mu.RUnlock()
	return loader.loading
}

// Snapshot the most recent load result
func (loader *Loader) Snapshot() Snapshot {
	loader.mu.RLock()
	defer loader.mu.RUnlock()
	return loader.current
}

// Load fetch today's plans, the delayed workflows, the projects and
// the current weather concurrently. A failed fetch never discards the
// other panels' results; every failure is collected into the returned
// error and into Snapshot.Errors.
func (loader *Loader) Load(ctx context.Context) (Snapshot, error) {

	loader.mu.Lock()
	loader.loading = true
	loader.mu.Unlock()

	snapshot := Snapshot{}
	var errs *multierror.Error
	var mu sync.Mutex
	fail := func(err error) {
		mu.Lock()
		errs = multierror.Append(errs, err)
		snapshot.Errors = append(snapshot.Errors, err.Error())
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		plans, err := loader.source.PlansOn(time.Now())
		if err != nil {
			fail(err)
			return
		}
		snapshot.Plans = plans
	}()

	go func() {
		defer wg.Done()
		workflows, err := loader.source.DelayedWorkflows()
		if err != nil {
			fail(err)
			return
		}
		snapshot.Workflows = workflows
	}()

	go func() {
		defer wg.Done()
		projects, err := loader.source.Projects()
		if err != nil {
			fail(err)
			return
		}
		snapshot.Projects = projects
		snapshot.Markers = model.ProjectMarkers(projects)
	}()

	go func() {
		defer wg.Done()
		current, err := loader.weather.Current(ctx)
		if err != nil {
			fail(err)
			return
		}
		snapshot.Weather = &current
	}()

	wg.Wait()
	snapshot.LoadedAt = time.Now()

	loader.mu.Lock()
	loader.current = snapshot
	loader.loading = false
	loader.mu.Unlock()

	return snapshot, errs.ErrorOrNil()
}

// Refresh re-run the batch load. Refreshes that arrive while one is
// already in flight are collapsed into it instead of piling up, so a
// burst of change events yields one consistent snapshot.
func (loader *Loader) Refresh(ctx context.Context) (Snapshot, error) {
	result, err, _ := loader.group.Do("load", func() (interface{}, error) {
		return loader.Load(ctx)
	})
	return result.(Snapshot), err
}

// Watch refetch on every plans change notification until the context
// is done. The subscription is released on return.
func (loader *Loader) Watch(ctx context.Context) {
	events, cancel := loader.source.Subscribe("plans", 64)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := loader.Refresh(ctx); err != nil {
				log.Warn("[dashboard] refresh after %s %s: %s", event.Table, event.Op, err.Error())
			}
		}
	}
}
