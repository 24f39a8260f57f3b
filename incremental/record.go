package incremental

import "fmt"

// Record is a value stored in the hash table. Its identity is the pair of Key and Serial; Live is the soft-delete
// flag, a record with Live == false left in a slot is a tombstone.
//
// The zero Record (empty key, serial 0, not live) is returned by lookups when nothing was found.
type Record struct {
	Key    string
	Serial int
	Live   bool
}

// NewRecord returns a live record.
func NewRecord(key string, serial int) Record {
	return Record{Key: key, Serial: serial, Live: true}
}

// Equal reports whether two records have the same identity. Liveness is not compared.
func (r Record) Equal(other Record) bool {
	return r.Key == other.Key && r.Serial == other.Serial
}

// IsZero reports whether r is the "not found" record.
func (r Record) IsZero() bool {
	return r.Key == "" && r.Serial == 0 && !r.Live
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%d, %t)", r.Key, r.Serial, r.Live)
}
