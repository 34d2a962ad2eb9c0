// Package config manages the per-project remotepipe configuration file.
//
// It handles:
//   - Loading .remotepipe.yaml with defaults for absent keys
//   - Validation before the configuration is used
//   - Reading and writing individual scalar keys for `remotepipe config`
package config
