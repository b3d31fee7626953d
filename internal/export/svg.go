// Package export writes simulation snapshots to standalone files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// SnapshotSVG renders an xy-plane projection of particle positions as an
// SVG scatter. Dot radius scales with the box so snapshots of different
// densities stay readable.
func SnapshotSVG(pos dpd.Vector, box float64, size int) string {
	if size <= 0 {
		size = 600
	}
	scale := float64(size) / box
	radius := 0.08 * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ccff" fill-opacity="0.8">
`, size, size, size, size))

	n := pos.Particles()
	for i := 0; i < n; i++ {
		cx := pos[3*i] * scale
		cy := pos[3*i+1] * scale
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSnapshotSVG writes the snapshot to path.
func WriteSnapshotSVG(path string, pos dpd.Vector, box float64, size int) error {
	return os.WriteFile(path, []byte(SnapshotSVG(pos, box, size)), 0644)
}
