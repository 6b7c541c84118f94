package nbody

import (
	"math"
	"testing"

	"github.com/san-kum/particlesim/internal/jobs"
)

func randomSet(n int, seed int64) *ParticleSet {
	set := newParticleSet(n)
	set.seed(NewSource(seed), 100, 100)
	return set
}

func cloneSet(s *ParticleSet) *ParticleSet {
	c := newParticleSet(s.Len())
	copy(c.x, s.x)
	copy(c.y, s.y)
	copy(c.vx, s.vx)
	copy(c.vy, s.vy)
	return c
}

// referenceDelta computes the velocity change of particle i in float64
// with an exact square root, along with the sum of term magnitudes used
// to bound the approximation error.
func referenceDelta(s *ParticleSet, p Params, dt float64, i int) (dvx, dvy, scale float64) {
	gm := float64(p.G) * float64(p.Mass)
	for j := range s.x {
		dx := float64(s.x[j]) - float64(s.x[i])
		dy := float64(s.y[j]) - float64(s.y[i])
		r2 := dx*dx + dy*dy + float64(p.Epsilon)
		f := gm / r2 / math.Sqrt(r2) * dt
		dvx += f * dx
		dvy += f * dy
		scale += math.Abs(f*dx) + math.Abs(f*dy)
	}
	return dvx, dvy, scale
}

func TestKernelMatchesReference(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"multiple of four", 64},
		{"with tail", 37},
		{"smaller than a lane group", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := randomSet(tt.n, 7)
			k := NewKernel(set, DefaultParams())
			k.SetDt(0.016)
			k.Apply(0, tt.n)

			for i := 0; i < tt.n; i++ {
				wx, wy, scale := referenceDelta(set, DefaultParams(), 0.016, i)
				tol := 2.5e-3*scale + 1e-6
				if math.Abs(float64(set.vx[i])-wx) > tol || math.Abs(float64(set.vy[i])-wy) > tol {
					t.Fatalf("particle %d: got (%g, %g), want (%g, %g) within %g",
						i, set.vx[i], set.vy[i], wx, wy, tol)
				}
			}
		})
	}
}

func TestKernelTwoBodySymmetry(t *testing.T) {
	set := newParticleSet(2)
	set.x[0], set.y[0] = 10, 20
	set.x[1], set.y[1] = 13, 24

	dt := float32(0.016)
	k := NewKernel(set, DefaultParams())
	k.SetDt(dt)
	k.Apply(0, 2)

	// unit vector from particle 0 to particle 1
	ux, uy := float32(0.6), float32(0.8)
	along0 := float64(set.vx[0]*ux + set.vy[0]*uy)
	along1 := float64(set.vx[1]*ux + set.vy[1]*uy)

	if along0 <= 0 || along1 >= 0 {
		t.Fatalf("particles should attract: along0=%g along1=%g", along0, along1)
	}
	if rel := math.Abs(along0+along1) / math.Abs(along0); rel > 1e-3 {
		t.Errorf("asymmetric velocity change: %g vs %g (rel %g)", along0, along1, rel)
	}

	r2 := 25.0 + DefaultEpsilon
	want := DefaultG * DefaultMass * float64(dt) / r2
	if rel := math.Abs(along0-want) / want; rel > 2e-3 {
		t.Errorf("expected |dv| ~%g, got %g", want, along0)
	}
}

func TestKernelSelfTermVanishes(t *testing.T) {
	set := newParticleSet(1)
	set.x[0], set.y[0] = 5, 5
	set.vx[0], set.vy[0] = 1, -1

	k := NewKernel(set, DefaultParams())
	k.SetDt(1)
	k.Apply(0, 1)

	if set.vx[0] != 1 || set.vy[0] != -1 {
		t.Errorf("lone particle velocity changed: (%g, %g)", set.vx[0], set.vy[0])
	}
}

func TestKernelAccumulatesInPlace(t *testing.T) {
	set := randomSet(8, 3)
	for i := range set.vx {
		set.vx[i] = 100
		set.vy[i] = -100
	}
	fresh := cloneSet(set)
	for i := range fresh.vx {
		fresh.vx[i], fresh.vy[i] = 0, 0
	}

	for _, s := range []*ParticleSet{set, fresh} {
		k := NewKernel(s, DefaultParams())
		k.SetDt(0.01)
		k.Apply(0, 8)
	}

	for i := range set.vx {
		if d := set.vx[i] - 100 - fresh.vx[i]; math.Abs(float64(d)) > 1e-3 {
			t.Errorf("particle %d: vx not accumulated onto existing velocity (off by %g)", i, d)
		}
	}
}

func TestKernelAlternateParams(t *testing.T) {
	base := randomSet(16, 11)
	doubled := cloneSet(base)

	k1 := NewKernel(base, DefaultParams())
	k1.SetDt(0.01)
	k1.Apply(0, 16)

	p := DefaultParams()
	p.G *= 2
	k2 := NewKernel(doubled, p)
	k2.SetDt(0.01)
	k2.Apply(0, 16)

	for i := range base.vx {
		want := 2 * base.vx[i]
		if math.Abs(float64(doubled.vx[i]-want)) > 1e-4*math.Abs(float64(want))+1e-6 {
			t.Errorf("particle %d: doubling G gave %g, want %g", i, doubled.vx[i], want)
		}
	}
}

func TestKernelWriteDisjointness(t *testing.T) {
	const n = 128
	seq := randomSet(n, 5)
	par := cloneSet(seq)

	ks := NewKernel(seq, DefaultParams())
	ks.SetDt(0.016)
	for begin := 0; begin < n; begin += 16 {
		ks.Apply(begin, begin+16)
	}

	kp := NewKernel(par, DefaultParams())
	kp.SetDt(0.016)
	pool, err := jobs.New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()
	pool.Configure(kp)
	pool.SetWork(n, 16)
	pool.Dispatch()
	pool.Wait()

	for i := 0; i < n; i++ {
		if seq.vx[i] != par.vx[i] || seq.vy[i] != par.vy[i] {
			t.Fatalf("particle %d: sequential (%g, %g) != concurrent (%g, %g)",
				i, seq.vx[i], seq.vy[i], par.vx[i], par.vy[i])
		}
	}
}

func TestKernelChunkTruncation(t *testing.T) {
	set := randomSet(10, 9)
	k := NewKernel(set, DefaultParams())
	k.SetDt(0.016)

	pool, err := jobs.New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()
	pool.Configure(k)
	pool.SetWork(10, 4)
	pool.Dispatch()
	pool.Wait()

	for i := 0; i < 8; i++ {
		if set.vx[i] == 0 && set.vy[i] == 0 {
			t.Errorf("particle %d should have been updated", i)
		}
	}
	for i := 8; i < 10; i++ {
		if set.vx[i] != 0 || set.vy[i] != 0 {
			t.Errorf("particle %d is outside every chunk but changed to (%g, %g)", i, set.vx[i], set.vy[i])
		}
	}
}

func BenchmarkKernel1024(b *testing.B) {
	set := randomSet(1024, 1)
	k := NewKernel(set, DefaultParams())
	k.SetDt(0.016)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Apply(0, 1024)
	}
}
