// Package cache provides a persistent, zstd-compressed disk cache for
// synthesized audio so that regenerating an output tree does not repeat
// network synthesis calls. It is never used to decide whether an artifact
// exists; that is the store's job.
package cache
