package dynamics

import v3 "github.com/deadsy/sdfx/vec/v3"

// Handle is a constraint's view of one body: which body it moves and the
// move it last proposed.
type Handle interface {
	BodyIndex() int
	SquaredDelta() float64
	SquaredAngleDelta() float64
}

// ParticleHandle proposes a translation.
type ParticleHandle struct {
	Index int
	Delta v3.Vec
}

func (h *ParticleHandle) BodyIndex() int             { return h.Index }
func (h *ParticleHandle) SquaredDelta() float64      { return h.Delta.Length2() }
func (h *ParticleHandle) SquaredAngleDelta() float64 { return 0 }

// BodyHandle also proposes a rotation, as axis times angle.
type BodyHandle struct {
	ParticleHandle
	AngleDelta v3.Vec
}

func (h *BodyHandle) SquaredAngleDelta() float64 { return h.AngleDelta.Length2() }

var (
	_ Handle = (*ParticleHandle)(nil)
	_ Handle = (*BodyHandle)(nil)
)

func particleHandles(indices []int) []ParticleHandle {
	hs := make([]ParticleHandle, len(indices))
	for i, idx := range indices {
		hs[i].Index = idx
	}
	return hs
}

func handleList(hs []ParticleHandle) []Handle {
	out := make([]Handle, len(hs))
	for i := range hs {
		out[i] = &hs[i]
	}
	return out
}
