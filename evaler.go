package pswarm

import (
	"crypto/sha1"
	"runtime"
	"sync"
)

// Evaler evaluates a sweep of candidate points.
type Evaler interface {
	// Eval evaluates each point using obj and returns the valued
	// points along with the number of objective calls n. Unevaluated
	// points are not returned in the results slice.
	Eval(obj Objectiver, points ...Point) (results []Point, n int, err error)
}

// SerialEvaler evaluates points one at a time in order.
type SerialEvaler struct {
	// ContinueOnErr keeps the sweep going after an objective error.
	// The failed point keeps whatever value the objective returned
	// (positive infinity by contract) and the error is dropped.
	ContinueOnErr bool
}

func (ev SerialEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, 0, len(points))
	for _, p := range points {
		p.Val, err = obj.Objective(p.Pos())
		results = append(results, p)
		if err != nil && !ev.ContinueOnErr {
			return results, len(results), err
		}
	}
	return results, len(results), nil
}

// ParallelEvaler fans a sweep out to a fixed pool of worker
// goroutines. The objective must be safe for concurrent calls.
// Results are merged back by index, so completion order cannot affect
// the optimization; a run using it is bit-identical to a serial run.
type ParallelEvaler struct {
	// NWorkers caps concurrent objective calls. Zero or negative
	// means GOMAXPROCS.
	NWorkers int
}

func (ev ParallelEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	nw := ev.NWorkers
	if nw <= 0 {
		nw = runtime.GOMAXPROCS(0)
	}
	if nw > len(points) {
		nw = len(points)
	}

	results = make([]Point, len(points))
	copy(results, points)
	errs := make([]error, len(points))

	idx := make(chan int, len(points))
	for i := range points {
		idx <- i
	}
	close(idx)

	var wg sync.WaitGroup
	wg.Add(nw)
	for w := 0; w < nw; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i].Val, errs[i] = obj.Objective(results[i].Pos())
			}
		}()
	}
	wg.Wait()

	n = len(points)
	for _, e := range errs {
		if e != nil {
			return results, n, e
		}
	}
	return results, n, nil
}

// CacheEvaler wraps another Evaler and skips objective calls for
// positions it has already seen. Cache hits do not count as
// evaluations, so runs using it report fewer objective calls than the
// swarm-size arithmetic suggests.
type CacheEvaler struct {
	ev    Evaler
	cache map[[sha1.Size]byte]float64
}

func NewCacheEvaler(ev Evaler) *CacheEvaler {
	return &CacheEvaler{
		ev:    ev,
		cache: map[[sha1.Size]byte]float64{},
	}
}

func (ev *CacheEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, len(points))
	copy(results, points)

	fromnew := make([]int, 0, len(points))
	newp := make([]Point, 0, len(points))
	for i, p := range results {
		if val, ok := ev.cache[hashPoint(p)]; ok {
			results[i].Val = val
		} else {
			fromnew = append(fromnew, i)
			newp = append(newp, p)
		}
	}

	newresults, n, err := ev.ev.Eval(obj, newp...)
	for i, p := range newresults {
		ev.cache[hashPoint(p)] = p.Val
		results[fromnew[i]].Val = p.Val
	}

	if err != nil && len(newresults) < len(newp) {
		// the inner evaler stopped early; drop the points that were
		// never evaluated
		if len(newresults) == 0 {
			return nil, n, err
		}
		results = results[:fromnew[len(newresults)-1]+1]
	}
	return results, n, err
}
