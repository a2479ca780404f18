package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"uc-timelapse/internal/domain"
)

// ErrUnknownSeries is returned when toggling a series the chart does not display.
var ErrUnknownSeries = errors.New("unknown series")

// DefaultInterval is the time between animation steps.
const DefaultInterval = 150 * time.Millisecond

// Frame is the view state pushed to clients.
type Frame struct {
	Window  Window               `json:"window"`
	Playing bool                 `json:"playing"`
	Total   int                  `json:"total"`
	Current domain.CanonicalDate `json:"current,omitempty"` // last visible date
	Series  []domain.SeriesKey   `json:"series"`
	Hidden  []domain.SeriesKey   `json:"hidden"`
	Rows    []domain.DataPoint   `json:"rows"`
}

// Player holds the playback state of one viewer.
// All methods are safe for concurrent use.
type Player struct {
	chart *domain.Chart

	mu      sync.Mutex
	window  Window
	playing bool
	hidden  map[domain.SeriesKey]bool

	changed chan struct{}
}

// NewPlayer creates a paused player showing the whole chart.
func NewPlayer(chart *domain.Chart) *Player {
	if chart == nil {
		chart = domain.EmptyChart()
	}
	return &Player{
		chart:   chart,
		window:  FullWindow(len(chart.ChartData)),
		hidden:  make(map[domain.SeriesKey]bool),
		changed: make(chan struct{}, 1),
	}
}

// Play starts the animation. If the window already reaches the last row the
// animation restarts from the first row.
func (p *Player) Play() {
	p.mu.Lock()
	n := len(p.chart.ChartData)
	if p.window.AtEnd(n) {
		p.window = firstRow(n)
	}
	p.playing = n > 0 && !p.window.AtEnd(n)
	p.mu.Unlock()
	p.notify()
}

// Pause stops the animation at the current row.
func (p *Player) Pause() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	p.notify()
}

// Reset rewinds to the first row and pauses.
func (p *Player) Reset() {
	p.mu.Lock()
	p.playing = false
	p.window = firstRow(len(p.chart.ChartData))
	p.mu.Unlock()
	p.notify()
}

// Toggle flips the visibility of a displayed series.
// Returns whether the series is visible afterwards.
func (p *Player) Toggle(key domain.SeriesKey) (bool, error) {
	if !p.displays(key) {
		return false, fmt.Errorf("%w: %q", ErrUnknownSeries, key)
	}

	p.mu.Lock()
	if p.hidden[key] {
		delete(p.hidden, key)
	} else {
		p.hidden[key] = true
	}
	visible := !p.hidden[key]
	p.mu.Unlock()

	p.notify()
	return visible, nil
}

// Step advances one row while playing. Reaching the last row pauses.
// Returns whether the window moved.
func (p *Player) Step() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return false
	}
	n := len(p.chart.ChartData)
	p.window = p.window.Advance(n)
	if p.window.AtEnd(n) {
		p.playing = false
	}
	return true
}

// Playing reports whether the animation is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Frame returns the current view with hidden series removed from every row.
func (p *Player) Frame() Frame {
	p.mu.Lock()
	window := p.window
	playing := p.playing
	hidden := make(map[domain.SeriesKey]bool, len(p.hidden))
	for k := range p.hidden {
		hidden[k] = true
	}
	p.mu.Unlock()

	f := Frame{
		Window:  window,
		Playing: playing,
		Total:   len(p.chart.ChartData),
		Series:  make([]domain.SeriesKey, 0, len(p.chart.UniqueUCs)),
		Hidden:  make([]domain.SeriesKey, 0, len(hidden)),
	}
	for _, key := range p.chart.UniqueUCs {
		if hidden[key] {
			f.Hidden = append(f.Hidden, key)
		} else {
			f.Series = append(f.Series, key)
		}
	}

	rows := window.Apply(p.chart)
	f.Rows = make([]domain.DataPoint, len(rows))
	for i, row := range rows {
		values := make(map[domain.SeriesKey]float64, len(f.Series))
		for _, key := range f.Series {
			values[key] = row.Value(key)
		}
		f.Rows[i] = domain.DataPoint{Date: row.Date, Values: values}
	}
	if len(rows) > 0 {
		f.Current = rows[len(rows)-1].Date
	}

	return f
}

// Run emits a frame immediately, after every command, and after every step
// while playing. It returns when ctx is done or emit fails.
func (p *Player) Run(ctx context.Context, interval time.Duration, emit func(Frame) error) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := emit(p.Frame()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.changed:
			if err := emit(p.Frame()); err != nil {
				return err
			}
		case <-ticker.C:
			if !p.Step() {
				continue
			}
			if err := emit(p.Frame()); err != nil {
				return err
			}
		}
	}
}

func (p *Player) notify() {
	select {
	case p.changed <- struct{}{}:
	default:
	}
}

func (p *Player) displays(key domain.SeriesKey) bool {
	for _, k := range p.chart.UniqueUCs {
		if k == key {
			return true
		}
	}
	return false
}

func firstRow(n int) Window {
	return Window{Start: 0, End: 1}.Clamp(n)
}
