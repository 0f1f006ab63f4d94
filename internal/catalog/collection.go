package catalog

import "sync"

// Collection holds the working set of records in insertion order. The web
// layer serves overlapping requests, so every access goes through the lock;
// readers get defensive copies and never see a half applied reload.
type Collection struct {
	mu      sync.RWMutex
	records []Record
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a record at the end of the collection.
func (c *Collection) Append(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

// ReplaceAll swaps the entire contents, used when reloading from storage.
func (c *Collection) ReplaceAll(records []Record) {
	copied := make([]Record, len(records))
	copy(copied, records)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = copied
}

// Snapshot returns a copy of the records that is safe to iterate and filter
// without holding the lock.
func (c *Collection) Snapshot() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	copied := make([]Record, len(c.records))
	copy(copied, c.records)
	return copied
}

// Len reports the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
