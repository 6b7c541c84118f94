package export

import (
	"fmt"
	"io"
	"strings"
)

// SVGOptions controls the rendering of a particle snapshot.
type SVGOptions struct {
	Width      int
	Height     int
	Radius     float64
	Fill       string
	Background string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1280,
		Height:     720,
		Radius:     1.2,
		Fill:       "#00ff88",
		Background: "#0a0a0a",
	}
}

// ParticlesToSVG draws one circle per particle inside the world rectangle
// [0,worldW) x [0,worldH), scaled to the image size. Particles outside the
// world or with non-finite coordinates are omitted.
func ParticlesToSVG(x, y []float32, worldW, worldH float32, opts SVGOptions) string {
	var sb strings.Builder
	WriteParticlesSVG(&sb, x, y, worldW, worldH, opts)
	return sb.String()
}

// WriteParticlesSVG streams the snapshot to w and returns how many particles
// were drawn.
func WriteParticlesSVG(w io.Writer, x, y []float32, worldW, worldH float32, opts SVGOptions) (int, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("export: %d x coordinates but %d y coordinates", len(x), len(y))
	}
	if worldW <= 0 || worldH <= 0 {
		return 0, fmt.Errorf("export: world bounds must be positive, got %gx%g", worldW, worldH)
	}

	_, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Fill)
	if err != nil {
		return 0, err
	}

	sx := float64(opts.Width) / float64(worldW)
	sy := float64(opts.Height) / float64(worldH)

	drawn := 0
	for i := range x {
		px, py := x[i], y[i]
		if !(px >= 0 && px < worldW && py >= 0 && py < worldH) {
			continue
		}
		_, err := fmt.Fprintf(w, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			float64(px)*sx, float64(py)*sy, opts.Radius)
		if err != nil {
			return drawn, err
		}
		drawn++
	}

	_, err = io.WriteString(w, "</g>\n</svg>\n")
	return drawn, err
}
