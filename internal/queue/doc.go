// Package queue provides the admission gate that bounds how many synthesis
// calls are in flight at once. Waiters are admitted in no particular order.
package queue
