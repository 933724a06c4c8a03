package compute

import "github.com/BurntSushi/toml"

// tuneFile is the decoded shape of an optional --tune TOML file, letting an
// operator override the dispatch constants of spec §4.6 without a rebuild.
// Zero/absent fields in the file leave DefaultConfig's value in place.
type tuneFile struct {
	MaxResults        *int  `toml:"max_results"`
	WorkgroupSize     *int  `toml:"workgroup_size"`
	BytesPerThread    *int  `toml:"bytes_per_thread"`
	LineWorkgroupSize *int  `toml:"line_workgroup_size"`
	MaxTextBytes      *int  `toml:"max_text_bytes"`
	DeviceAvailable   *bool `toml:"device_available"`
}

// LoadTuneFile reads path as TOML and overlays it onto DefaultConfig(),
// returning the merged Config. Grounded on holocm-holo-build's use of
// BurntSushi/toml for its own build-manifest parsing.
func LoadTuneFile(path string) (Config, error) {
	cfg := DefaultConfig()
	var tf tuneFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return Config{}, err
	}
	if tf.MaxResults != nil {
		cfg.MaxResults = *tf.MaxResults
	}
	if tf.WorkgroupSize != nil {
		cfg.WorkgroupSize = *tf.WorkgroupSize
	}
	if tf.BytesPerThread != nil {
		cfg.BytesPerThread = *tf.BytesPerThread
	}
	if tf.LineWorkgroupSize != nil {
		cfg.LineWorkgroupSize = *tf.LineWorkgroupSize
	}
	if tf.MaxTextBytes != nil {
		cfg.MaxTextBytes = *tf.MaxTextBytes
	}
	if tf.DeviceAvailable != nil {
		cfg.DeviceAvailable = *tf.DeviceAvailable
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
