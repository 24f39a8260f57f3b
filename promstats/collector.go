// Package promstats exports incremental.HashTable counters as Prometheus metrics.
package promstats

import (
	"sync"

	"github.com/bdragon300/incremental-hash/incremental"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is anything that reports hash table counters, normally *incremental.HashTable.
type StatsSource interface {
	Stats() incremental.Stats
}

// Collector reports the counters of one hash table on every scrape.
//
// HashTable is not safe for concurrent use, and scrapes come from the HTTP handler goroutine. If the table is
// modified concurrently, pass the lock guarding it, Collect takes it while reading the counters.
type Collector struct {
	source StatsSource
	lock   sync.Locker

	capacity     *prometheus.Desc
	size         *prometheus.Desc
	deleted      *prometheus.Desc
	live         *prometheus.Desc
	migrating    *prometheus.Desc
	cursor       *prometheus.Desc
	migrations   *prometheus.Desc
	loadFactor   *prometheus.Desc
	deletedRatio *prometheus.Desc
}

// NewCollector creates a collector with metric names prefixed by namespace. The lock may be nil.
func NewCollector(namespace string, source StatsSource, lock sync.Locker, constLabels prometheus.Labels) *Collector {
	gen := []string{"generation"}
	return &Collector{
		source: source,
		lock:   lock,
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "capacity_slots"),
			"Number of slots in the table.", gen, constLabels,
		),
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "occupied_slots"),
			"Number of occupied slots, tombstones included.", gen, constLabels,
		),
		deleted: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "tombstones"),
			"Number of soft-deleted records.", gen, constLabels,
		),
		live: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "live_records"),
			"Number of live records in both tables.", nil, constLabels,
		),
		migrating: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "migrating"),
			"1 if a migration is in progress.", nil, constLabels,
		),
		cursor: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "migration_cursor"),
			"Next old table slot to migrate, -1 if idle.", nil, constLabels,
		),
		migrations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "migrations_total"),
			"Number of completed migrations.", nil, constLabels,
		),
		loadFactor: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "load_factor"),
			"Occupied to total slots ratio of the current table.", nil, constLabels,
		),
		deletedRatio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "hashtable", "deleted_ratio"),
			"Tombstones to occupied slots ratio of the current table.", nil, constLabels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.size
	ch <- c.deleted
	ch <- c.live
	ch <- c.migrating
	ch <- c.cursor
	ch <- c.migrations
	ch <- c.loadFactor
	ch <- c.deletedRatio
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.lock != nil {
		c.lock.Lock()
	}
	s := c.source.Stats()
	if c.lock != nil {
		c.lock.Unlock()
	}

	c.collectTable(ch, "current", s.Current)
	if s.Migrating {
		c.collectTable(ch, "old", s.Old)
	}

	var migrating float64
	if s.Migrating {
		migrating = 1
	}
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.Live))
	ch <- prometheus.MustNewConstMetric(c.migrating, prometheus.GaugeValue, migrating)
	ch <- prometheus.MustNewConstMetric(c.cursor, prometheus.GaugeValue, float64(s.Cursor))
	ch <- prometheus.MustNewConstMetric(c.migrations, prometheus.CounterValue, float64(s.Migrations))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, ratio(s.Current.Size, s.Current.Capacity))
	ch <- prometheus.MustNewConstMetric(c.deletedRatio, prometheus.GaugeValue, ratio(s.Current.Deleted, s.Current.Size))
}

func (c *Collector) collectTable(ch chan<- prometheus.Metric, generation string, ts incremental.TableStats) {
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(ts.Capacity), generation)
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(ts.Size), generation)
	ch <- prometheus.MustNewConstMetric(c.deleted, prometheus.GaugeValue, float64(ts.Deleted), generation)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
