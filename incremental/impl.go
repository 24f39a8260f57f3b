package incremental

import (
	"fmt"
	"io"
	"math"
)

const (
	loadFactorLimit   = 0.5  // Current table load factor that starts a migration
	deletedRatioLimit = 0.8  // Current table deleted ratio that starts a migration
	transferFraction  = 0.25 // Fraction of old table slots scanned by one migration step
	growthFactor      = 4    // New table capacity is the next prime after growthFactor * live records
	noMigration       = -1   // Cursor value when there is no old table
)

// table is one generation of slots. A nil slot is empty, a slot with not live record is a tombstone.
//
// size counts records put into the table, including ones put over a tombstone, deleted counts records soft-deleted
// in it. Hence size-deleted is always the number of live records.
type table struct {
	slots   []*Record
	size    int
	deleted int
	policy  ProbingPolicy
}

func newTable(capacity int, policy ProbingPolicy) *table {
	return &table{
		slots:  make([]*Record, capacity),
		policy: policy,
	}
}

func (t *table) loadFactor() float64 {
	return float64(t.size) / float64(len(t.slots))
}

func (t *table) deletedRatio() float64 {
	if t.size == 0 {
		return 0
	}
	return float64(t.deleted) / float64(t.size)
}

func (t *table) live() int {
	return t.size - t.deleted
}

// put stores a new live record in slot idx, which must be empty or a tombstone.
func (t *table) put(idx int, key string, serial int) {
	t.slots[idx] = &Record{Key: key, Serial: serial, Live: true}
	t.size++
}

// kill turns the live record in slot idx into a tombstone.
func (t *table) kill(idx int) {
	t.slots[idx].Live = false
	t.deleted++
}

func (t *table) stats() TableStats {
	return TableStats{
		Capacity: len(t.slots),
		Size:     t.size,
		Deleted:  t.deleted,
		Policy:   t.policy,
	}
}

func (t *table) dump(w io.Writer) error {
	for i, slot := range t.slots {
		var s string
		if slot != nil && slot.Key != "" {
			s = slot.String()
		}
		if _, err := fmt.Fprintf(w, "[%d] : %s\n", i, s); err != nil {
			return err
		}
	}
	return nil
}

// probe walks the probe sequence of hsh in table t looking for a live record with given key and serial.
//
// Returns the slot index and true if such record was found. Otherwise returns false and the slot where the record
// should be put: the first tombstone met on the way if any, or the empty slot that terminated the sequence. The slot
// is -1 if the sequence is exhausted without meeting either.
func probe(t *table, hsh uint64, key string, serial int) (int, bool) {
	capacity := uint64(len(t.slots))
	start := hsh % capacity
	step := probeStep(t.policy, hsh, capacity)

	tombstone := -1
	for i := uint64(0); i < capacity; i++ {
		idx := int(probeIndex(t.policy, start, step, i, capacity))
		slot := t.slots[idx]
		switch {
		case slot == nil:
			if tombstone >= 0 {
				return tombstone, false
			}
			return idx, false
		case !slot.Live:
			if tombstone < 0 {
				tombstone = idx
			}
		case slot.Key == key && slot.Serial == serial:
			return idx, true
		}
	}
	return tombstone, false
}

// freeSlot returns the slot where a new record with given key should be put. Panics if there is no such slot, which
// the load factor limit makes unreachable.
func freeSlot(t *table, hsh uint64, key string, serial int) int {
	idx, _ := probe(t, hsh, key, serial)
	if idx < 0 {
		panic("table is full")
	}
	return idx
}

// probeStep returns the secondary step for double hashing, 0 for other policies.
func probeStep(policy ProbingPolicy, hsh, capacity uint64) uint64 {
	if policy != DoubleHashing {
		return 0
	}
	step := doubleHashModulus - hsh%doubleHashModulus
	if step%capacity == 0 {
		// Table of capacity 11 would never leave the start slot
		step = 1
	}
	return step
}

// probeIndex returns the i-th candidate slot of the sequence starting at start.
func probeIndex(policy ProbingPolicy, start, step, i, capacity uint64) uint64 {
	switch policy {
	case Quadratic:
		return (start + (i*i)%capacity) % capacity
	case DoubleHashing:
		return (start + (i*step)%capacity) % capacity
	default:
		return (start + i) % capacity
	}
}

// lookup searches the live record in current table and then in the old one.
func (t *HashTable) lookup(hsh uint64, key string, serial int) (*table, int, bool) {
	for _, gen := range t.generations() {
		if idx, ok := probe(gen, hsh, key, serial); ok {
			return gen, idx, true
		}
	}
	return nil, 0, false
}

// generations returns the tables that may hold live records, current first.
func (t *HashTable) generations() []*table {
	if t.old == nil {
		return []*table{t.current}
	}
	return []*table{t.current, t.old}
}

func (t *HashTable) overloaded() bool {
	return t.current.loadFactor() > loadFactorLimit
}

func (t *HashTable) sparse() bool {
	return t.current.deletedRatio() > deletedRatioLimit
}

// rebalance runs a migration step if the current table breaches the limit or a migration is in progress.
func (t *HashTable) rebalance(breached func() bool) {
	if !breached() && !t.Migrating() {
		return
	}
	t.step()
	// Just finished migration may leave the new table beyond the limit already
	if !t.Migrating() && breached() {
		t.step()
	}
}

// step advances the migration by one slice, starting a new migration if there is none.
func (t *HashTable) step() {
	if t.old == nil {
		t.startMigration()
	}

	budget := int(math.Ceil(transferFraction * float64(len(t.old.slots))))
	end := min(t.cursor+budget, len(t.old.slots))
	for ; t.cursor < end; t.cursor++ {
		rec := t.old.slots[t.cursor]
		if rec == nil || !rec.Live {
			continue
		}
		idx := freeSlot(t.current, t.hasher(rec.Key), rec.Key, rec.Serial)
		t.current.put(idx, rec.Key, rec.Serial)
		t.old.kill(t.cursor)
	}

	if t.cursor == len(t.old.slots) {
		t.finishMigration()
	}
}

func (t *HashTable) startMigration() {
	t.old = t.current
	capacity := nextPrime(growthFactor*t.old.live(), t.cfg.MinPrime, t.cfg.MaxPrime)
	t.current = newTable(capacity, t.nextPolicy)
	t.cursor = 0

	t.cfg.Logger.Debug(
		"migration started",
		"old_cap", len(t.old.slots),
		"new_cap", capacity,
		"live", t.old.live(),
		"policy", t.nextPolicy,
	)
}

func (t *HashTable) finishMigration() {
	t.cfg.Logger.Debug("migration finished", "old_cap", len(t.old.slots), "new_cap", len(t.current.slots))

	t.old = nil
	t.cursor = noMigration
	t.migrations++
}
