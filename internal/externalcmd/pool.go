package externalcmd

import "sync"

// Pool tracks every Cmd started under it so Close can wait for clean
// shutdown. A Pool never signals termination itself — callers close each
// Cmd they own before closing the Pool.
type Pool struct {
	wg sync.WaitGroup
}

// NewPool allocates an empty Pool.
func NewPool() *Pool {
	return &Pool{}
}

// Close waits for every supervised command's goroutine to return.
func (p *Pool) Close() {
	p.wg.Wait()
}
