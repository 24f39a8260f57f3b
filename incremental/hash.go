// Package incremental implements an open-addressed hash table that rehashes incrementally.
package incremental

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a record key to a hash value. It must be deterministic.
type Hasher func(key string) uint64

// DefaultHasher is used when NewHashTable gets a nil hasher.
func DefaultHasher(key string) uint64 {
	return xxhash.Sum64String(key)
}

// NewHashTable creates a new hash table. The capacity is clamped to the configured prime range and rounded up to
// the next prime. The probing policy is used for the initial table and for tables created by migrations until
// changed by ChangeProbingPolicy.
//
// Panics if the policy is unknown or options are inconsistent.
func NewHashTable(capacity int, hasher Hasher, policy ProbingPolicy, opts ...Option) *HashTable {
	if !policy.Valid() {
		panic(fmt.Errorf("unknown probing policy %v", policy))
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	if hasher == nil {
		hasher = DefaultHasher
	}

	capacity = min(max(capacity, cfg.MinPrime), cfg.MaxPrime)
	if !IsPrime(capacity) {
		capacity = nextPrime(capacity, cfg.MinPrime, cfg.MaxPrime)
	}

	return &HashTable{
		hasher:     hasher,
		current:    newTable(capacity, policy),
		nextPolicy: policy,
		cursor:     noMigration,
		cfg:        cfg,
	}
}

// HashTable is an open-addressed hash table with soft deletion and incremental rehashing. Not safe for concurrent
// use.
//
// Removed records stay in their slots as tombstones. When the load factor of the table goes above 0.5 after an
// insertion, or the ratio of tombstones goes above 0.8 after a removal, the table becomes "old" and a new table,
// sized for 4 times the number of live records, takes its place. Live records are then moved to the new table by
// quarters of the old table on every subsequent Insert and Remove call, so the migration is over after 4 calls.
// While it lasts, lookups check both tables.
type HashTable struct {
	hasher     Hasher
	current    *table
	old        *table
	nextPolicy ProbingPolicy
	cursor     int // Next old table slot to migrate, noMigration if there is no old table
	migrations int // Completed migrations count
	cfg        Config
}

// Insert adds a copy of the record to the table. Returns false if the serial is out of the allowed range or the record
// with the same key and serial is already there. The Live field of r is ignored, stored record is always live.
func (t *HashTable) Insert(r Record) bool {
	ok := t.insert(r)
	t.rebalance(t.overloaded)
	return ok
}

func (t *HashTable) insert(r Record) bool {
	if r.Serial < t.cfg.MinID || r.Serial > t.cfg.MaxID {
		return false
	}
	hsh := t.hasher(r.Key)
	if _, _, ok := t.lookup(hsh, r.Key, r.Serial); ok {
		return false
	}
	idx := freeSlot(t.current, hsh, r.Key, r.Serial)
	t.current.put(idx, r.Key, r.Serial)
	return true
}

// Remove soft-deletes the record with the same key and serial as r. Returns false if there is no such record.
func (t *HashTable) Remove(r Record) bool {
	gen, idx, ok := t.lookup(t.hasher(r.Key), r.Key, r.Serial)
	if ok {
		gen.kill(idx)
	}
	t.rebalance(t.sparse)
	return ok
}

// Find returns a copy of the live record with given key and serial, or zero Record if there is no such record.
func (t *HashTable) Find(key string, serial int) Record {
	r, _ := t.Get(key, serial)
	return r
}

// Get returns a copy of the live record with given key and serial and true. If there is no such record, it returns
// zero Record and false.
func (t *HashTable) Get(key string, serial int) (Record, bool) {
	gen, idx, ok := t.lookup(t.hasher(key), key, serial)
	if !ok {
		return Record{}, false
	}
	return *gen.slots[idx], true
}

// UpdateSerial changes the serial of the stored record identified by r in place. Returns false if the record is not
// found, the new serial is out of the allowed range, or a live record with the new serial already exists.
//
// The slot does not move: the probe sequence depends on the key only.
func (t *HashTable) UpdateSerial(r Record, serial int) bool {
	hsh := t.hasher(r.Key)
	gen, idx, ok := t.lookup(hsh, r.Key, r.Serial)
	if !ok {
		return false
	}
	if serial == r.Serial {
		return true
	}
	if serial < t.cfg.MinID || serial > t.cfg.MaxID {
		return false
	}
	if _, _, dup := t.lookup(hsh, r.Key, serial); dup {
		return false
	}
	gen.slots[idx].Serial = serial
	return true
}

// ChangeProbingPolicy sets the policy of the table that the next migration creates. The current table keeps its
// policy. Panics if the policy is unknown.
func (t *HashTable) ChangeProbingPolicy(policy ProbingPolicy) {
	if !policy.Valid() {
		panic(fmt.Errorf("unknown probing policy %v", policy))
	}
	t.nextPolicy = policy
}

// Range calls fn for every live record, current table first. Stops if fn returns false. The table must not be
// modified from fn.
func (t *HashTable) Range(fn func(r Record) bool) {
	for _, gen := range t.generations() {
		for _, slot := range gen.slots {
			if slot != nil && slot.Live && !fn(*slot) {
				return
			}
		}
	}
}

// Len returns the number of live records in the hash table.
func (t *HashTable) Len() int {
	n := t.current.live()
	if t.old != nil {
		n += t.old.live()
	}
	return n
}

// Cap returns the capacity of the current table.
func (t *HashTable) Cap() int {
	return len(t.current.slots)
}

// Size returns the number of occupied slots of the current table, including tombstones.
func (t *HashTable) Size() int {
	return t.current.size
}

// Deleted returns the number of tombstones in the current table.
func (t *HashTable) Deleted() int {
	return t.current.deleted
}

// LoadFactor returns the occupied to total slots ratio of the current table.
func (t *HashTable) LoadFactor() float64 {
	return t.current.loadFactor()
}

// DeletedRatio returns the tombstones to occupied slots ratio of the current table. Empty table has ratio 0.
func (t *HashTable) DeletedRatio() float64 {
	return t.current.deletedRatio()
}

// Migrating reports whether a migration is in progress.
func (t *HashTable) Migrating() bool {
	return t.old != nil
}

// TableStats describes one table generation.
type TableStats struct {
	Capacity int
	Size     int
	Deleted  int
	Policy   ProbingPolicy
}

// Stats is a snapshot of hash table counters. Old and Cursor are meaningful only while Migrating is true, Cursor is
// -1 otherwise.
type Stats struct {
	Current    TableStats
	Old        TableStats
	Migrating  bool
	Cursor     int
	Live       int
	Migrations int
	NextPolicy ProbingPolicy
}

// Stats returns the current counters.
func (t *HashTable) Stats() Stats {
	s := Stats{
		Current:    t.current.stats(),
		Migrating:  t.Migrating(),
		Cursor:     t.cursor,
		Live:       t.Len(),
		Migrations: t.migrations,
		NextPolicy: t.nextPolicy,
	}
	if t.old != nil {
		s.Old = t.old.stats()
	}
	return s
}

// Dump writes the slots of the current and the old table to w, one line per slot.
func (t *HashTable) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Dump for the current table:"); err != nil {
		return err
	}
	if err := t.current.dump(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Dump for the old table:"); err != nil {
		return err
	}
	if t.old != nil {
		return t.old.dump(w)
	}
	return nil
}
