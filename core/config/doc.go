// Package config loads the s3hive configuration.
//
// Values come from the process environment, optionally seeded from a .env file,
// and fall back to the defaults declared in the `default` struct tags of each
// sub-configuration.
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key)
//   - Storage: endpoint, region and credentials of the object storage service
//   - Log: logging level and format
//
// Nested keys map to upper-case environment variables joined by underscores,
// e.g. storage.access_key is read from STORAGE_ACCESS_KEY.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Endpoint)
package config
