// Package configs manages rsakit settings and configuration.
//
// # Directories
//
// UserRsakitSettings is initialized at startup:
//
//   - DataPath: $XDG_DATA_HOME/rsakit (default ~/.local/share/rsakit),
//     holding the key store and operation history
//   - ConfigsPath: the OS config dir plus /rsakit, holding config.toml
//
// Setting RSAKIT_HOME places both under a single directory.
//
// # Configuration
//
// config.toml is optional; missing keys keep their defaults:
//
//	[keys]
//	default_size = 2048      # bits for `keys generate`
//	store = "toml"           # or "sqlite"
//
//	[envelope]
//	format = "tagged"        # or "legacy" for untagged output
//	key_sizer = "estimate"   # or "modulus" for the exact chunk limit
//
//	[history]
//	disabled = false
//
// Unknown keys and out-of-range values are rejected with ErrInvalidConfig.
package configs
