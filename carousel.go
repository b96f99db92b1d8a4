package lekka

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the automatic slide rotation period.
const DefaultInterval = 4 * time.Second

// Slide is one carousel image.
type Slide struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// SlideItem is a slide with its visibility for rendering. All items are
// rendered; only the active one is opaque.
type SlideItem struct {
	Slide
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// Carousel is an index over a fixed slide list that wraps in both directions.
// An empty carousel is inert: navigation is a no-op and Index stays 0.
// Safe for concurrent use.
type Carousel struct {
	slides   []Slide
	interval time.Duration

	mu    sync.RWMutex
	index int
}

// NewCarousel creates a carousel positioned on the first slide.
// A non-positive interval uses DefaultInterval.
func NewCarousel(slides []Slide, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Carousel{
		slides:   append([]Slide(nil), slides...),
		interval: interval,
	}
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return len(c.slides)
}

// Interval returns the automatic rotation period.
func (c *Carousel) Interval() time.Duration {
	return c.interval
}

// Index returns the active slide index.
func (c *Carousel) Index() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Next advances to the following slide, wrapping to 0 after the last.
func (c *Carousel) Next() int {
	return c.shift(1)
}

// Prev moves to the preceding slide, wrapping to the last from 0.
func (c *Carousel) Prev() int {
	return c.shift(-1)
}

// Tick is one automatic advance.
func (c *Carousel) Tick() int {
	return c.Next()
}

func (c *Carousel) shift(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = wrap(c.index+delta, len(c.slides))
	return c.index
}

// Step returns the index delta slides away from i, wrapping in both
// directions. It does not move the carousel.
func (c *Carousel) Step(i, delta int) int {
	return wrap(i+delta, len(c.slides))
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// Jump makes slide i active.
func (c *Carousel) Jump(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = i
	return nil
}

func (c *Carousel) check(i int) error {
	if i < 0 || i >= len(c.slides) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSlideOutOfRange, i, len(c.slides))
	}
	return nil
}

// Items returns every slide flagged with whether it is active.
func (c *Carousel) Items() []SlideItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemsAt(c.index)
}

// ItemsAt returns every slide with slide i flagged active, leaving the
// carousel's own position alone.
func (c *Carousel) ItemsAt(i int) ([]SlideItem, error) {
	if err := c.check(i); err != nil {
		return nil, err
	}
	return c.itemsAt(i), nil
}

func (c *Carousel) itemsAt(active int) []SlideItem {
	items := make([]SlideItem, len(c.slides))
	for i, s := range c.slides {
		items[i] = SlideItem{Slide: s, Index: i, Active: i == active}
	}
	return items
}

// ActiveIndex returns the index of the active item, or 0 when none is.
func ActiveIndex(items []SlideItem) int {
	for _, it := range items {
		if it.Active {
			return it.Index
		}
	}
	return 0
}

// Run advances the carousel every interval until ctx is done. The ticker is
// stopped on return.
func (c *Carousel) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.run(ctx, ticker.C)
}

func (c *Carousel) run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			c.Tick()
		}
	}
}
