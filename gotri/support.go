package gotri

import (
	"io"
	"sync"

	"github.com/plan-systems/klog"
)

// NewCatalogContext returns a context that owns every catalog attached to it.
// Done fires once Close has been called and each attached catalog has detached.
func NewCatalogContext() CatalogContext {
	reg := &catalogRegistry{
		attached: make(map[io.Closer]struct{}),
		done:     make(chan struct{}),
	}

	// the registry itself holds one count until Close
	reg.live.Add(1)
	go func() {
		reg.live.Wait()
		close(reg.done)
	}()
	return reg
}

type catalogRegistry struct {
	mu       sync.Mutex
	attached map[io.Closer]struct{}
	shut     bool
	live     sync.WaitGroup
	done     chan struct{}
}

func (reg *catalogRegistry) AttachCatalog(cat io.Closer) {
	reg.mu.Lock()
	if reg.shut {
		reg.mu.Unlock()
		klog.Warningf("catalog attached after its context closed; closing it")
		go closeCatalog(cat)
		return
	}
	reg.attached[cat] = struct{}{}
	reg.live.Add(1)
	reg.mu.Unlock()
}

func (reg *catalogRegistry) DetachCatalog(cat io.Closer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.attached[cat]; ok {
		delete(reg.attached, cat)
		reg.live.Done()
	}
}

func (reg *catalogRegistry) Done() <-chan struct{} {
	return reg.done
}

func (reg *catalogRegistry) Close() {
	reg.mu.Lock()
	if reg.shut {
		reg.mu.Unlock()
		return
	}
	reg.shut = true
	pending := make([]io.Closer, 0, len(reg.attached))
	for cat := range reg.attached {
		pending = append(pending, cat)
	}
	reg.mu.Unlock()

	// Close detaches, which takes mu
	for _, cat := range pending {
		go closeCatalog(cat)
	}
	reg.live.Done()
}

func closeCatalog(cat io.Closer) {
	if err := cat.Close(); err != nil {
		klog.Warningf("closing catalog: %v", err)
	}
}
