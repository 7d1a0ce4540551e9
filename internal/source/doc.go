// Package source extracts the work items to synthesize from the app's data
// files. Items are pulled out with a regular expression, deduplicated by
// case-insensitive key and returned in document order.
package source
