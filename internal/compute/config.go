// Package compute implements the dispatch layer of spec §4.6: buffer
// layout, chunked parallel launch, atomic match collection, and the
// host-side post-pass. No real GPU is bound here (see DESIGN.md); the
// "device" is a goroutine pool that mirrors the same buffer/atomic
// discipline a real compute backend would use, so the dispatch contract
// itself — not a specific driver — is what gets exercised and tested.
package compute

// Config tunes the dispatch layer. Values mirror the quantities named in
// spec §4.6 and §6.
type Config struct {
	// MaxResults bounds the results buffer (MAX_RESULTS in spec §4.6).
	MaxResults int

	// WorkgroupSize is the literal-path workgroup size (spec §4.6: 256).
	WorkgroupSize int

	// BytesPerThread is the divisor used to size the literal dispatch:
	// total threads ≈ |B| / BytesPerThread (spec §4.6: 64).
	BytesPerThread int

	// LineWorkgroupSize is the regex-path workgroup size (spec §4.6: 64).
	LineWorkgroupSize int

	// MaxTextBytes is MAX_GPU_BUFFER (spec §4.6: 64 MiB).
	MaxTextBytes int

	// DeviceAvailable simulates device bring-up succeeding. A production
	// backend would instead report this from real device enumeration; the
	// reference backend takes it as configuration so tests can exercise
	// the BackendUnavailable fallback deterministically.
	DeviceAvailable bool
}

// DefaultConfig returns the configuration matching spec §4.6's stated
// constants.
func DefaultConfig() Config {
	return Config{
		MaxResults:        4096,
		WorkgroupSize:     256,
		BytesPerThread:    64,
		LineWorkgroupSize: 64,
		MaxTextBytes:      64 * 1024 * 1024,
		DeviceAvailable:   true,
	}
}

// Validate reports a *ConfigError for the first non-positive tunable found.
func (c Config) Validate() error {
	if c.MaxResults <= 0 {
		return newConfigError("MaxResults", c.MaxResults)
	}
	if c.WorkgroupSize <= 0 {
		return newConfigError("WorkgroupSize", c.WorkgroupSize)
	}
	if c.BytesPerThread <= 0 {
		return newConfigError("BytesPerThread", c.BytesPerThread)
	}
	if c.LineWorkgroupSize <= 0 {
		return newConfigError("LineWorkgroupSize", c.LineWorkgroupSize)
	}
	if c.MaxTextBytes <= 0 {
		return newConfigError("MaxTextBytes", c.MaxTextBytes)
	}
	return nil
}
