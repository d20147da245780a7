// Package dynamics is a position-based constraint solver. Constraints
// propose moves for the bodies they touch; each step averages the
// proposals per body and integrates them with damping.
package dynamics

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/num/quat"
)

// Body is anything the solver can move.
type Body interface {
	Position() v3.Vec
	SetPosition(p v3.Vec)
	Velocity() v3.Vec
	Mass() float64

	// HasRotation reports whether Rotation and the rotational methods
	// are meaningful.
	HasRotation() bool
	Rotation() quat.Number
	AngularVelocity() v3.Vec

	ApplyForce(f v3.Vec)
	ApplyMove(delta v3.Vec, weight float64)
	ApplyTorque(t v3.Vec)
	ApplyRotate(delta v3.Vec, weight float64)

	// UpdatePosition integrates the accumulated forces and moves, clears
	// them, and returns the squared distance moved.
	UpdatePosition(dt, damping float64) float64
	// UpdateRotation does the same for orientation and returns the
	// squared rotation angle.
	UpdateRotation(dt, damping float64) float64
}

// accumulator collects forces and weighted moves between updates.
type accumulator struct {
	force     v3.Vec
	moveSum   v3.Vec
	weightSum float64
}

func (a *accumulator) addMove(delta v3.Vec, weight float64) {
	a.moveSum = a.moveSum.Add(delta.MulScalar(weight))
	a.weightSum += weight
}

// integrate returns the damped velocity after the accumulated force and
// the weighted mean move, then clears the accumulator. The mean move is
// spread over dt so that it is covered exactly in one step.
func (a *accumulator) integrate(vel v3.Vec, dt, damping, mass float64) v3.Vec {
	vel = vel.MulScalar(damping).Add(a.force.MulScalar(dt / mass))
	if a.weightSum > 0 {
		vel = vel.Add(a.moveSum.DivScalar(a.weightSum * dt))
	}
	*a = accumulator{}
	return vel
}

// Particle is a point mass without orientation.
type Particle struct {
	position v3.Vec
	velocity v3.Vec
	mass     float64
	acc      accumulator
}

// NewParticle returns a particle of unit mass at p.
func NewParticle(p v3.Vec) *Particle {
	return &Particle{position: p, mass: 1}
}

func (p *Particle) Position() v3.Vec      { return p.position }
func (p *Particle) SetPosition(x v3.Vec)  { p.position = x }
func (p *Particle) Velocity() v3.Vec      { return p.velocity }
func (p *Particle) Mass() float64         { return p.mass }
func (p *Particle) HasRotation() bool     { return false }
func (p *Particle) Rotation() quat.Number { return quat.Number{Real: 1} }

func (p *Particle) AngularVelocity() v3.Vec { return v3.Vec{} }

// SetMass sets the mass. Non-positive masses panic.
func (p *Particle) SetMass(m float64) {
	if !(m > 0) {
		panic("dynamics: mass must be positive")
	}
	p.mass = m
}

func (p *Particle) ApplyForce(f v3.Vec) { p.acc.force = p.acc.force.Add(f) }

func (p *Particle) ApplyMove(delta v3.Vec, weight float64) { p.acc.addMove(delta, weight) }

// ApplyTorque and ApplyRotate are ignored by particles.
func (p *Particle) ApplyTorque(v3.Vec)          {}
func (p *Particle) ApplyRotate(v3.Vec, float64) {}

func (p *Particle) UpdatePosition(dt, damping float64) float64 {
	p.velocity = p.acc.integrate(p.velocity, dt, damping, p.mass)
	step := p.velocity.MulScalar(dt)
	p.position = p.position.Add(step)
	return step.Length2()
}

func (p *Particle) UpdateRotation(dt, damping float64) float64 { return 0 }

// RigidBody is a particle with an orientation.
type RigidBody struct {
	Particle
	rotation   quat.Number
	angularVel v3.Vec
	angAcc     accumulator
}

// NewRigidBody returns a unit-mass body at p with identity orientation.
func NewRigidBody(p v3.Vec) *RigidBody {
	return &RigidBody{
		Particle: Particle{position: p, mass: 1},
		rotation: quat.Number{Real: 1},
	}
}

func (b *RigidBody) HasRotation() bool       { return true }
func (b *RigidBody) Rotation() quat.Number   { return b.rotation }
func (b *RigidBody) AngularVelocity() v3.Vec { return b.angularVel }

// SetRotation sets the orientation; q is normalized.
func (b *RigidBody) SetRotation(q quat.Number) { b.rotation = normalize(q) }

// ApplyTorque adds a torque, as a rotation vector per unit time.
func (b *RigidBody) ApplyTorque(t v3.Vec) { b.angAcc.force = b.angAcc.force.Add(t) }

// ApplyRotate proposes a rotation given as axis times angle in radians.
func (b *RigidBody) ApplyRotate(delta v3.Vec, weight float64) { b.angAcc.addMove(delta, weight) }

func (b *RigidBody) UpdateRotation(dt, damping float64) float64 {
	b.angularVel = b.angAcc.integrate(b.angularVel, dt, damping, b.mass)
	step := b.angularVel.MulScalar(dt)
	if step.Length2() == 0 {
		return 0
	}
	b.rotation = normalize(quat.Mul(expRotation(step), b.rotation))
	return step.Length2()
}

// Rotate applies the body orientation to v.
func (b *RigidBody) Rotate(v v3.Vec) v3.Vec {
	q := quat.Mul(quat.Mul(b.rotation, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(b.rotation))
	return v3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// expRotation maps a rotation vector to a unit quaternion.
func expRotation(r v3.Vec) quat.Number {
	h := r.MulScalar(0.5)
	return quat.Exp(quat.Number{Imag: h.X, Jmag: h.Y, Kmag: h.Z})
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

var (
	_ Body = (*Particle)(nil)
	_ Body = (*RigidBody)(nil)
)
