package series

import (
	"runtime"
	"sync"
)

// Pmap applies fn to every location index using a fixed pool of workers fed
// from a channel; results land in caller-preallocated slices so no locking is
// needed. nwrkrs <= 0 takes the CPU count.
func Pmap(nloc, nwrkrs int, fn func(loc int)) {
	if nwrkrs <= 0 {
		nwrkrs = runtime.NumCPU()
	}
	if nwrkrs > nloc {
		nwrkrs = nloc
	}
	if nwrkrs <= 1 {
		for i := 0; i < nloc; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	lin := make(chan int, nwrkrs)
	for w := 0; w < nwrkrs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range lin {
				fn(i)
			}
		}()
	}
	for i := 0; i < nloc; i++ {
		lin <- i
	}
	close(lin)
	wg.Wait()
}

// PmapErr is Pmap for fallible kernels: the first error wins, remaining work
// still drains.
func PmapErr(nloc, nwrkrs int, fn func(loc int) error) error {
	var mu sync.Mutex
	var first error
	Pmap(nloc, nwrkrs, func(i int) {
		if err := fn(i); err != nil {
			mu.Lock()
			if first == nil {
				first = err
			}
			mu.Unlock()
		}
	})
	return first
}
