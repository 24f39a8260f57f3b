package incremental

import (
	"fmt"
	"io"
	"log/slog"
)

// Config holds the table limits. Zero value is not usable, NewHashTable fills the defaults before applying options.
type Config struct {
	MinPrime int
	MaxPrime int
	MinID    int
	MaxID    int
	Logger   *slog.Logger
}

// minTablePrime is the smallest capacity that keeps free slots in the probe sequence of an empty new table for the
// inserts made before its migration finishes.
const minTablePrime = 11

// Option configures a HashTable on creation.
type Option func(*Config)

// WithPrimeRange sets the capacity range of the tables. Both bounds must be primes, 11 <= min <= max.
func WithPrimeRange(minPrime, maxPrime int) Option {
	return func(c *Config) {
		c.MinPrime = minPrime
		c.MaxPrime = maxPrime
	}
}

// WithSerialRange sets the range of serials accepted by Insert and UpdateSerial.
func WithSerialRange(minID, maxID int) Option {
	return func(c *Config) {
		c.MinID = minID
		c.MaxID = maxID
	}
}

// WithLogger sets the logger that receives migration events at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() Config {
	return Config{
		MinPrime: MinPrime,
		MaxPrime: MaxPrime,
		MinID:    MinID,
		MaxID:    MaxID,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (c Config) validate() error {
	if c.MinPrime < minTablePrime || c.MinPrime > c.MaxPrime {
		return fmt.Errorf("prime range [%d, %d] is invalid", c.MinPrime, c.MaxPrime)
	}
	if !IsPrime(c.MinPrime) || !IsPrime(c.MaxPrime) {
		return fmt.Errorf("prime range bounds %d and %d must be primes", c.MinPrime, c.MaxPrime)
	}
	if c.MinID > c.MaxID {
		return fmt.Errorf("serial range [%d, %d] is invalid", c.MinID, c.MaxID)
	}
	if c.Logger == nil {
		return fmt.Errorf("logger must not be nil")
	}
	return nil
}
