package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	// StyleValue renders data values such as paths and viewBoxes.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
)

// =============================================================================
// Status lines
// =============================================================================

type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusOK:   {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	statusFail: {"✗", lipgloss.NewStyle().Foreground(colorFail)},
	statusWarn: {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	statusInfo: {"›", lipgloss.NewStyle().Foreground(colorLabel)},
}

func printStatus(s status, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s == statusWarn {
		msg = StyleWarning.Render(msg)
	}
	ic := statusIcons[s]
	fmt.Println(ic.style.Render(ic.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printStatus(statusOK, format, args...) }
func printError(format string, args ...any)   { printStatus(statusFail, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarn, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the layer, feature and shape counts on one line, with
// whether the artifacts came from the cache.
func printStats(stats pipeline.Stats, cached bool) {
	source := lipgloss.NewStyle().Foreground(colorLabel).Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(plural(stats.Layers, "layer")),
		StyleDim.Render(plural(stats.Features, "feature")),
		StyleDim.Render(plural(stats.Shapes, "shape")),
		source,
	}
	fmt.Println("  " + strings.Join(parts, sep))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
