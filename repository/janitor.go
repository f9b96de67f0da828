package repository

import (
	"sync"
	"time"
)

// Janitor calls a sweep function on a fixed interval until stopped.
type Janitor struct {
	stop chan struct{}
	once sync.Once
}

func StartJanitor(interval time.Duration, sweep func()) *Janitor {
	j := &Janitor{stop: make(chan struct{})}
	go j.run(interval, sweep)
	return j
}

func (j *Janitor) run(interval time.Duration, sweep func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-j.stop:
			return
		}
	}
}

// Stop ends the loop. It is safe to call more than once.
func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.stop) })
}
