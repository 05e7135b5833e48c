// Package status carries install progress from background workers to the UI
// loop.
//
// Message is a closed set of variants (Progress, Ok, Err, Unknown). Its wire
// form, "<tag>;<text>" with tags progress, OK and ERR, is produced only when a
// message leaves the process.
//
// Channel is an unbounded FIFO with non-blocking Send and TryReceive. Any
// number of goroutines may send; exactly one goroutine receives. Messages are
// never dropped or merged: a consumer that takes one message per loop
// iteration observes every intermediate state, possibly a few iterations
// late.
package status
