package unitworld

import "sync"

// parallelFor splits [0, n) into one contiguous chunk per worker. Use it when every index
// costs about the same.
func parallelFor(workersCount, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workersCount = min(max(1, workersCount), n)
	chunkSize := (n + workersCount - 1) / workersCount

	var wg sync.WaitGroup
	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, n))
	}
	wg.Wait()
}

// dispatch hands the indices [0, n) out one by one to a pool of workers. Rows of a
// visibility matrix vary a lot in cost, so workers pull the next row when they are free.
// fn receives the worker id, in [0, workersCount).
func dispatch(workersCount, n int, fn func(worker, i int)) {
	if n == 0 {
		return
	}
	workersCount = min(max(1, workersCount), n)

	indices := make(chan int, workersCount)
	go func() {
		defer close(indices)
		for i := 0; i < n; i++ {
			indices <- i
		}
	}()

	var wg sync.WaitGroup
	for workerID := range workersCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(workerID, i)
			}
		}()
	}
	wg.Wait()
}
