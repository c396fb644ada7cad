// Package batch buffers driver rows into Arrow RecordBatches, either as a
// one-shot conversion of an in-memory row slice or via a Processor that
// emits a batch every N rows for streaming result sets. It is the Go
// counterpart of hdbconnect-arrow's conversion module.
package batch

// Config controls batch sizing and builder preallocation. Mirrors
// hdbconnect-arrow's BatchConfig.
type Config struct {
	// BatchSize is the maximum number of rows buffered before Processor
	// emits a RecordBatch. Default 65536.
	BatchSize int
	// StringCapacity is the preallocated byte capacity for string builder
	// data. Default 1MiB.
	StringCapacity int
	// BinaryCapacity is the preallocated byte capacity for binary builder
	// data. Default 1MiB.
	BinaryCapacity int
}

// DefaultConfig returns the default batch configuration (64K rows, 1MiB
// string/binary preallocation).
func DefaultConfig() Config {
	return Config{
		BatchSize:      65536,
		StringCapacity: 1024 * 1024,
		BinaryCapacity: 1024 * 1024,
	}
}

// SmallConfig returns a configuration tuned for small result sets.
func SmallConfig() Config {
	return Config{BatchSize: 1024, StringCapacity: 64 * 1024, BinaryCapacity: 64 * 1024}
}

// LargeConfig returns a configuration tuned for large result sets.
func LargeConfig() Config {
	return Config{BatchSize: 131072, StringCapacity: 8 * 1024 * 1024, BinaryCapacity: 8 * 1024 * 1024}
}

// WithBatchSize returns a copy of cfg with BatchSize overridden.
func (c Config) WithBatchSize(size int) Config {
	c.BatchSize = size
	return c
}
