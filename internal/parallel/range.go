package parallel

// chunksPerWorker over-partitions each range so that stealing has
// something to take when chunks cost different amounts.
const chunksPerWorker = 4

// Partition splits [0, n) into at most parts contiguous, non-empty
// ranges of near-equal length.
func Partition(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = min(max(parts, 1), n)

	ranges := make([][2]int, parts)
	size, rem := n/parts, n%parts
	lo := 0
	for i := range parts {
		hi := lo + size
		if i < rem {
			hi++
		}
		ranges[i] = [2]int{lo, hi}
		lo = hi
	}
	return ranges
}

// For calls fn over disjoint sub-ranges covering [0, n) and returns when
// all calls are done. A nil pool runs fn(0, n) on the calling goroutine.
func For(p *WorkerPool, n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.Workers() == 1 {
		fn(0, n)
		return
	}

	ranges := Partition(n, p.Workers()*chunksPerWorker)
	work := make([]func(), len(ranges))
	for i, r := range ranges {
		work[i] = func() { fn(r[0], r[1]) }
	}
	p.ExecuteAll(work)
}

// Reduce is For with a reduction: each sub-range returns a local value
// and combine folds them in range order on the calling goroutine. Workers
// never share an accumulator, so no atomic compare-and-swap is needed. An
// empty range returns the zero value.
func Reduce[T any](p *WorkerPool, n int, fn func(lo, hi int) T, combine func(a, b T) T) T {
	if n <= 0 {
		var zero T
		return zero
	}
	if p == nil || p.Workers() == 1 {
		return fn(0, n)
	}

	ranges := Partition(n, p.Workers()*chunksPerWorker)
	local := make([]T, len(ranges))
	work := make([]func(), len(ranges))
	for i, r := range ranges {
		work[i] = func() { local[i] = fn(r[0], r[1]) }
	}
	p.ExecuteAll(work)

	acc := local[0]
	for _, x := range local[1:] {
		acc = combine(acc, x)
	}
	return acc
}

// MaxFor reduces local maxima to the overall maximum.
func MaxFor(p *WorkerPool, n int, fn func(lo, hi int) float64) float64 {
	return Reduce(p, n, fn, func(a, b float64) float64 { return max(a, b) })
}
