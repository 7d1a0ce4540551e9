// Package pipeline turns a dataset and a set of voices into audio artifacts.
//
// A Runner handles one (voice, item) pair: it skips pairs whose artifact is
// already present and otherwise synthesizes, writes and verifies the audio,
// retrying with a linear backoff. A Pipeline fans a dataset out into one
// Runner task per item for each voice in turn, collects the results in
// completion order and reports progress through a Reporter.
package pipeline
