// Package viz renders terminal views of simulation runs: asciigraph time
// series, a Braille particle scatter, and a live bubbletea view.
package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// TemperaturePlot renders a temperature time series.
func TemperaturePlot(temps []float64, height int) string {
	if len(temps) < 2 {
		return "not enough samples to plot"
	}
	return asciigraph.Plot(temps,
		asciigraph.Height(height),
		asciigraph.Caption("kinetic temperature"),
	)
}

// RDFPlot renders a radial distribution function.
func RDFPlot(g []float64, height int) string {
	if len(g) < 2 {
		return "not enough bins to plot"
	}
	return asciigraph.Plot(g,
		asciigraph.Height(height),
		asciigraph.Caption("g(r)"),
	)
}

// Scatter projects particle positions onto the xy-plane and draws them on
// a Braille canvas.
func Scatter(pos dpd.Vector, box float64, width, height int) string {
	c := NewCanvas(width, height)
	n := pos.Particles()
	sx := float64(width*2-1) / box
	sy := float64(height*4-1) / box
	for i := 0; i < n; i++ {
		x := int(pos[3*i] * sx)
		y := int(pos[3*i+1] * sy)
		c.Set(x, y)
	}
	return c.String()
}

// SummaryPanel renders final run metrics in a bordered panel.
func SummaryPanel(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("run summary"))
	sb.WriteByte('\n')
	for _, name := range names {
		sb.WriteString(labelStyle.Render(name))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%.6f", metrics[name])))
		sb.WriteByte('\n')
	}
	return statsStyle.Render(sb.String())
}
