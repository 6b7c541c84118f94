package export

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestParticlesToSVG(t *testing.T) {
	opts := DefaultSVGOptions()
	opts.Width, opts.Height = 200, 100

	x := []float32{10, 50, -5, 120, float32(math.NaN())}
	y := []float32{5, 25, 10, 10, 10}

	svg := ParticlesToSVG(x, y, 100, 50, opts)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("malformed svg:\n%s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `cx="20.0" cy="10.0"`) {
		t.Errorf("expected scaled first particle, got:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="100.0" cy="50.0"`) {
		t.Errorf("expected scaled second particle, got:\n%s", svg)
	}
}

func TestWriteParticlesSVGErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteParticlesSVG(&buf, []float32{1}, nil, 10, 10, DefaultSVGOptions()); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := WriteParticlesSVG(&buf, nil, nil, 0, 10, DefaultSVGOptions()); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestWriteParticlesSVGCount(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteParticlesSVG(&buf, []float32{1, 2, 3}, []float32{1, 2, 3}, 10, 10, DefaultSVGOptions())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 drawn, got %d", n)
	}
}
