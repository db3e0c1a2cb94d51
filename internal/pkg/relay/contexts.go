package relay

import "sync"

// Contexts is the process-wide (instance-owned, per SPEC_FULL.md's Open
// Question decision 4) uuid -> *TransferContext map.
type Contexts struct {
	mu       sync.Mutex
	contexts map[string]*TransferContext
}

// NewContexts creates an empty registry.
func NewContexts() *Contexts {
	return &Contexts{contexts: make(map[string]*TransferContext)}
}

// Create mints a fresh, empty TransferContext under uuid.
func (c *Contexts) Create(uuid string) *TransferContext {
	tc := NewTransferContext()
	c.mu.Lock()
	c.contexts[uuid] = tc
	c.mu.Unlock()
	return tc
}

// Get looks up the TransferContext for uuid.
func (c *Contexts) Get(uuid string) (*TransferContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tc, ok := c.contexts[uuid]
	return tc, ok
}

// Remove deletes uuid from the registry once its transfer is complete.
func (c *Contexts) Remove(uuid string) {
	c.mu.Lock()
	delete(c.contexts, uuid)
	c.mu.Unlock()
}
