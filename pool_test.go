package lekka

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Exporter, error)
	Release(*Exporter)
	Size() int
	Close() error
} = (*ExporterPool)(nil)

// mockPool builds a pool whose exporters use mocked backends.
func mockPool(n int) (*ExporterPool, *int) {
	var mu sync.Mutex
	created := 0
	p := newExporterPool(n, func() (*Exporter, error) {
		mu.Lock()
		created++
		mu.Unlock()
		return NewExporter(withCapturer(&mockCapturer{img: []byte("png")}), withEncoder(&mockEncoder{pages: 1}))
	})
	return p, &created
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "explicit can exceed max",
			workers: 20,
			want:    20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExporterPool - Acquire/Release
// ---------------------------------------------------------------------------

func TestExporterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	p, _ := mockPool(0)
	defer p.Close()

	if p.Size() != MinPoolSize {
		t.Errorf("Size() = %d, want %d", p.Size(), MinPoolSize)
	}
}

func TestExporterPool_LazyCreation(t *testing.T) {
	t.Parallel()

	p, created := mockPool(3)
	defer p.Close()

	if *created != 0 {
		t.Fatalf("created = %d before first Acquire, want 0", *created)
	}

	e, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	p.Release(e)

	// Reuses the released exporter instead of creating a second one.
	e2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	defer p.Release(e2)

	if e2 != e {
		t.Error("Acquire() created a new exporter while one was idle")
	}
	if *created != 1 {
		t.Errorf("created = %d, want 1", *created)
	}
}

func TestExporterPool_BlocksAtCapacity(t *testing.T) {
	t.Parallel()

	p, _ := mockPool(1)
	defer p.Close()

	e, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() at capacity error = %v, want %v", err, context.DeadlineExceeded)
	}

	got := make(chan *Exporter, 1)
	go func() {
		e2, err := p.Acquire(context.Background())
		if err == nil {
			got <- e2
		}
	}()

	p.Release(e)

	select {
	case e2 := <-got:
		if e2 != e {
			t.Error("waiter got a different exporter")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not woken by Release")
	}
}

func TestExporterPool_ConcurrentExports(t *testing.T) {
	t.Parallel()

	p, created := mockPool(2)
	defer p.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			e, err := p.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() error: %v", err)
				return
			}
			defer p.Release(e)

			if _, err := e.Export(context.Background(), "<html></html>"); err != nil {
				t.Errorf("Export() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if *created > 2 {
		t.Errorf("created = %d, want at most 2", *created)
	}
}

func TestExporterPool_Close(t *testing.T) {
	t.Parallel()

	p, _ := mockPool(1)

	e, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		waitErr <- err
	}()

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case err := <-waitErr:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("waiting Acquire() error = %v, want %v", err, ErrPoolClosed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not released by Close")
	}

	// Release after Close is a no-op.
	p.Release(e)

	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want %v", err, ErrPoolClosed)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
