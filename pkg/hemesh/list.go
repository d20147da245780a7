package hemesh

// None is the null element reference.
const None = -1

// element is satisfied by the three record types stored in a List.
type element interface {
	IsUnused() bool
}

// List is an index-addressed arena of mesh elements. Elements are appended
// and never physically deleted until the owning mesh is compacted. Each
// list carries its own tag counter for visit-marking during traversals.
type List[T element] struct {
	items []T
	tag   int
}

func newList[T element](capacity int) List[T] {
	if capacity < 0 {
		capacity = 0
	}
	return List[T]{items: make([]T, 0, capacity)}
}

// Count returns the number of slots in the list, including unused ones.
func (l *List[T]) Count() int { return len(l.items) }

// Capacity returns the capacity of the backing slice.
func (l *List[T]) Capacity() int { return cap(l.items) }

// CountUnused returns the number of slots flagged as unused.
func (l *List[T]) CountUnused() int {
	n := 0
	for i := range l.items {
		if l.items[i].IsUnused() {
			n++
		}
	}
	return n
}

// CountUsed returns the number of live elements.
func (l *List[T]) CountUsed() int { return len(l.items) - l.CountUnused() }

// Owns reports whether i addresses a slot of this list.
func (l *List[T]) Owns(i int) bool { return i >= 0 && i < len(l.items) }

// IsUnused reports whether the element at i has been removed.
func (l *List[T]) IsUnused(i int) bool { return l.items[i].IsUnused() }

// At returns the element at i. The returned record is a copy; mutate
// elements through the owning mesh.
func (l *List[T]) At(i int) T { return l.items[i] }

// NextTag returns a tag value that no element of the list carries yet.
func (l *List[T]) NextTag() int {
	l.tag++
	return l.tag
}

func (l *List[T]) add(t T) int {
	l.items = append(l.items, t)
	return len(l.items) - 1
}

func (l *List[T]) ptr(i int) *T { return &l.items[i] }

func (l *List[T]) trimExcess() {
	if cap(l.items) == len(l.items) {
		return
	}
	items := make([]T, len(l.items))
	copy(items, l.items)
	l.items = items
}

// compact moves every used element down over the unused slots, keeping
// relative order, and returns the old-to-new index table. Removed slots map
// to None.
func (l *List[T]) compact() []int {
	remap := make([]int, len(l.items))
	marker := 0
	for i := range l.items {
		if l.items[i].IsUnused() {
			remap[i] = None
			continue
		}
		remap[i] = marker
		l.items[marker] = l.items[i]
		marker++
	}
	clear(l.items[marker:])
	l.items = l.items[:marker]
	return remap
}

// Reindex compacts a caller-owned attribute slice that runs parallel to one
// of the element lists, using a table returned by Mesh.Compact. The slice is
// compacted in place and returned with its new length.
func Reindex[A any](attrs []A, remap []int) []A {
	n := 0
	for i, j := range remap {
		if i >= len(attrs) {
			break
		}
		if j == None {
			continue
		}
		attrs[j] = attrs[i]
		n = j + 1
	}
	return attrs[:n]
}
