package mdsanitize

import (
	"context"
	"sync"
	"testing"
)

func TestNewServicePool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"normal size", 4, 4},
		{"below minimum clamps", 0, MinPoolSize},
		{"negative clamps", -3, MinPoolSize},
		{"above maximum clamps", MaxPoolSize + 10, MaxPoolSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NewServicePool(tt.n).Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServicePoolAcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2)

	a := pool.Acquire()
	if a == nil {
		t.Fatal("Acquire() = nil on open pool")
	}
	b := pool.Acquire()
	if b == nil {
		t.Fatal("second Acquire() = nil")
	}

	pool.Release(a)
	c := pool.Acquire()
	if c != a {
		t.Error("Acquire() did not reuse released service")
	}

	pool.Release(b)
	pool.Release(c)
}

func TestServicePoolServicesWork(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(3)
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := pool.Acquire()
			defer pool.Release(svc)

			got, err := svc.Sanitize(context.Background(), Input{Markdown: "$\\mathcal C$\n"})
			if err != nil {
				t.Errorf("Sanitize() error = %v", err)
				return
			}
			if got.Markdown != "$\\mathcal{C}$\n" {
				t.Errorf("Sanitize() = %q", got.Markdown)
			}
		}()
	}
	wg.Wait()
}

func TestServicePoolClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	svc := pool.Acquire()
	pool.Close()

	if got := pool.Acquire(); got != nil {
		t.Error("Acquire() after Close returned a service")
	}
	// Releasing into a closed pool must not panic.
	pool.Release(svc)
}

func TestServicePoolReleaseNil(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	pool.Release(nil) // must be a no-op
	if svc := pool.Acquire(); svc == nil {
		t.Error("Acquire() = nil after releasing nil")
	}
}
