package testutil

import (
	"sync"
)

// RunConcurrently starts n calls of fn released at the same instant and
// returns their errors indexed by worker.
func RunConcurrently(n int, fn func(worker int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}()
	}
	close(start)
	wg.Wait()

	return errs
}

// CountNil reports how many errs are nil.
func CountNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}
