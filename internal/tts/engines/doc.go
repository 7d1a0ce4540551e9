// Package engines contains the synthesizers used to render work items.
// Edge (edge-tts) and Google (gtts-cli) run as subprocesses and return MP3
// bytes; the mock engine produces placeholder audio offline. Paced and
// Cached wrap any engine with request pacing and a disk cache.
package engines
