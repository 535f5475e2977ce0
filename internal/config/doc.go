// Package config resolves where the CLI connects and with which API key.
//
// # Overview
//
// Settings come from three layers, later layers winning field by field:
//
//  1. The TOML config file (~/.config/lametric/config.toml unless --config
//     points elsewhere)
//  2. Environment variables
//  3. Command-line flags
//
// A missing config file is not an error; most users only set
// LAMETRIC_API_KEY and pass --local-device-name.
//
// # TOML Format
//
//	api_key = "..."
//	device_name = "LM1234.local"
//	# or, for a device behind a DNS name or IP:
//	# host = "lametric.example.com"
//	# port = 4343
//	# scheme = "https"
//	verbose = false
//
// # Environment
//
//   - LAMETRIC_API_KEY
//   - LAMETRIC_DEVICE_NAME
//   - LAMETRIC_HOST, LAMETRIC_PORT, LAMETRIC_SCHEME
//   - VERBOSE (1, true, yes, y or on)
//
// # Validation
//
// Validate requires an API key and exactly one of a device name or a host.
// A device name is always reached over plain HTTP on port 8080 unless a port
// is given; asking for https with a device name is rejected. Host targets
// default to https.
//
// # Usage Example
//
//	resolved, err := config.Resolve(*configPath, flagSettings, logger)
//	if err != nil {
//		return err
//	}
//	client, err := lametric.New(resolved.APIKey, resolved.Connection)
package config
