package game

import (
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/canefield/components"
	"github.com/pthm-cable/canefield/systems"
)

// parallelThreshold is the minimum patch count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// patchSnapshot captures read-only state for the compute phase.
type patchSnapshot struct {
	Entity ecs.Entity
	ID     int
	Pos    components.GridPos
	Crop   components.Crop
}

// growResult is the computed outcome for one patch, applied after the compute phase.
type growResult struct {
	Crop          components.Crop
	Price         float64
	CashflowDelta float64
	Err           error
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end     int
	rain, rainProb float64
}

// parallelState holds the snapshot/result buffers and the worker pool.
type parallelState struct {
	snapshots  []patchSnapshot
	results    []growResult
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers int) *parallelState {
	if workers < 1 {
		workers = 1
	}
	return &parallelState{
		numWorkers: workers,
		snapshots:  make([]patchSnapshot, 0, 256),
		results:    make([]growResult, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk)
			p.doneChan <- struct{}{}
		}
	}
}

// compute fills results for every snapshot, on the pool when it pays off.
func (p *parallelState) compute(rain, rainProb float64) {
	n := len(p.snapshots)
	if cap(p.results) < n {
		p.results = make([]growResult, n)
	}
	p.results = p.results[:n]

	if p.numWorkers < 2 || n < parallelThreshold {
		p.computeChunk(workChunk{start: 0, end: n, rain: rain, rainProb: rainProb})
		return
	}

	p.startWorkers()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		p.workChan <- workChunk{start: start, end: end, rain: rain, rainProb: rainProb}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk grows and prices snapshots[start:end] without touching the world.
func (p *parallelState) computeChunk(c workChunk) {
	for i := c.start; i < c.end; i++ {
		snap := &p.snapshots[i]
		crop := snap.Crop
		delta := systems.Grow(&crop, c.rain, c.rainProb)
		price, err := systems.ComputeMillPrice(snap.ID, snap.Pos, crop.Sugar)

		p.results[i] = growResult{
			Crop:          crop,
			Price:         price,
			CashflowDelta: delta,
			Err:           err,
		}
	}
}
