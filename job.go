package qudit

import "time"

// Job is one contiguous range of output cells of a kernel dispatch.
type Job struct {
	ID        string
	Kernel    string
	Lo        int
	Hi        int
	Fn        func(lo, hi int)
	StartTime time.Time
	done      chan<- struct{}
}

func (j Job) run() {
	j.Fn(j.Lo, j.Hi)
}

// finish signals the dispatcher. done is buffered per dispatch and never blocks.
func (j Job) finish() {
	j.done <- struct{}{}
}
