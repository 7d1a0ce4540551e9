// Package config handles configuration loading and validation. Settings come
// from viper (config file, SPELLBEE_* environment variables and bound flags)
// layered over Default, and are checked with struct tags before any work
// starts.
package config
