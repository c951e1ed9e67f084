package mdsanitize

import "sync"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one service is available.
	MinPoolSize = 1

	// MaxPoolSize caps pooled services; beyond this the batch is bound by
	// I/O, not by sanitization.
	MaxPoolSize = 32
)

// ServicePool manages a set of Service instances for batch processing.
// Services are stateless, so pooling exists to bound concurrency, not to
// share heavy resources; instances are created lazily on first acquire.
type ServicePool struct {
	size    int
	opts    []Option
	sem     chan *Service
	mu      sync.Mutex
	created int
	closed  bool
}

// NewServicePool creates a pool with capacity for n Service instances,
// each built with the given options.
func NewServicePool(n int, opts ...Option) *ServicePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	if n > MaxPoolSize {
		n = MaxPoolSize
	}
	return &ServicePool{
		size: n,
		opts: opts,
		sem:  make(chan *Service, n),
	}
}

// Acquire gets a service from the pool, creating one if capacity allows.
// Blocks if all services are in use. Returns nil after Close.
func (p *ServicePool) Acquire() *Service {
	select {
	case svc := <-p.sem:
		return svc
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		return New(p.opts...)
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a service to the pool for reuse.
func (p *ServicePool) Release(svc *Service) {
	if svc == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	select {
	case p.sem <- svc:
	default:
		// Pool full; drop the extra service.
	}
}

// Size returns the pool's capacity.
func (p *ServicePool) Size() int {
	return p.size
}

// Close marks the pool closed. Subsequent Acquire calls return nil.
func (p *ServicePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}
