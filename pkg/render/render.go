// Package render formats route plans, search results and parking spots
// for the terminal.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
)

// Header fallbacks when the backend sends no endpoint labels
const (
	FallbackStart = "START POINT"
	FallbackEnd   = "END POINT"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	statStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(0, 1)
)

// ColorEnabled reports whether f is a terminal that can show colour
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer turns client data into terminal text. A plain renderer emits
// no escape codes and no borders, for pipes and files.
type Renderer struct {
	plain bool
}

// New creates a renderer. Pass ColorEnabled(os.Stdout) as color.
func New(color bool) *Renderer {
	return &Renderer{plain: !color}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) box(text string) string {
	if r.plain {
		return text
	}
	return boxStyle.Render(text)
}

// Header returns the "<start> to <end>" title of a route collection
func Header(routes []models.RouteResult) string {
	start, end := FallbackStart, FallbackEnd
	if len(routes) > 0 {
		if s := routes[0].RouteSummary.StartPoint; s != "" {
			start = s
		}
		if e := routes[0].RouteSummary.EndPoint; e != "" {
			end = e
		}
	}
	return start + " to " + end
}

// PanelOptions controls what RoutesPanel shows
type PanelOptions struct {
	// Selected is the highlighted route index, -1 for none
	Selected int
	// Cursor marks the route the TUI cursor is on, -1 for none
	Cursor int
	// Details lists the routes whose instructions are expanded
	Details map[int]bool
}

// RoutesPanel renders the route list. An empty collection renders nothing.
func (r *Renderer) RoutesPanel(routes []models.RouteResult, opts PanelOptions) string {
	if len(routes) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(r.style(titleStyle, Header(routes)))
	b.WriteString("\n")

	for i, route := range routes {
		b.WriteString("\n")
		b.WriteString(r.routeItem(i, route, opts))
	}

	return r.box(b.String())
}

func (r *Renderer) routeItem(i int, route models.RouteResult, opts PanelOptions) string {
	var b strings.Builder

	marker := "  "
	if i == opts.Cursor {
		marker = "> "
	}
	line := fmt.Sprintf("%sRoute %d  %s  %s", marker, i+1,
		r.style(statStyle, fmt.Sprintf("%d min", route.Minutes())),
		fmt.Sprintf("%.2f km", route.Kilometres()),
	)
	if i == opts.Selected {
		line = r.style(selectedStyle, line+"  [selected]")
	}
	b.WriteString(line)
	b.WriteString("\n")

	if opts.Details[i] {
		b.WriteString(r.Instructions(route.RouteInstructions))
	} else {
		b.WriteString(r.style(dimStyle, "    Show Route Details"))
		b.WriteString("\n")
	}
	return b.String()
}

// Instructions renders a numbered instruction list
func (r *Renderer) Instructions(instructions []string) string {
	var b strings.Builder
	for i, instruction := range instructions {
		fmt.Fprintf(&b, "    %d. %s\n", i+1, instruction)
	}
	return b.String()
}

// ParkingSpot renders the popup text of one parking spot
func (r *Renderer) ParkingSpot(spot models.ParkingSpot) string {
	var b strings.Builder
	b.WriteString(r.style(titleStyle, "Bike Parking"))
	b.WriteString("\n")
	b.WriteString(spot.Description)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Rack Type: %s\n", spot.RackType)
	fmt.Fprintf(&b, "Rack Count: %d\n", spot.RackCount)
	fmt.Fprintf(&b, "Shelter: %s\n", spot.ShelterIndicator)
	if spot.DeviationM != nil && *spot.DeviationM != 0 {
		fmt.Fprintf(&b, "Deviation: %g m\n", *spot.DeviationM)
	}
	return b.String()
}

// RouteDetail renders one route with its instructions and parking spots
func (r *Renderer) RouteDetail(route models.RouteResult) string {
	var b strings.Builder
	b.WriteString(r.style(titleStyle, Header([]models.RouteResult{route})))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %.2f km\n\n", r.style(statStyle, fmt.Sprintf("%d min", route.Minutes())), route.Kilometres())
	b.WriteString(r.Instructions(route.RouteInstructions))

	for _, spot := range route.ParkingSpots {
		b.WriteString("\n")
		b.WriteString(r.ParkingSpot(spot))
	}
	return r.box(b.String())
}

// Locations renders a numbered list of search results
func (r *Renderer) Locations(locations []models.Location) string {
	if len(locations) == 0 {
		return r.style(dimStyle, "No results found") + "\n"
	}
	var b strings.Builder
	for i, loc := range locations {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, loc.Address,
			r.style(dimStyle, fmt.Sprintf("(%.6f, %.6f)", loc.Lat, loc.Lon)))
	}
	return b.String()
}

// Matches renders parking spots found near a point
func (r *Renderer) Matches(matches []geo.Match) string {
	if len(matches) == 0 {
		return r.style(dimStyle, "No parking spots found") + "\n"
	}
	var b strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&b, "%2d. %s %s  shelter: %s  routes: %s\n", i+1,
			m.Spot.Description,
			r.style(statStyle, fmt.Sprintf("%.0f m", m.DistanceM)),
			m.Spot.ShelterIndicator,
			routeList(m.Routes),
		)
	}
	return b.String()
}

// Error renders an error line
func (r *Renderer) Error(err error) string {
	return r.style(errorStyle, "Error: "+err.Error()) + "\n"
}

// Dim renders secondary text
func (r *Renderer) Dim(text string) string {
	return r.style(dimStyle, text)
}

func routeList(routes []int) string {
	parts := make([]string, len(routes))
	for i, idx := range routes {
		parts[i] = fmt.Sprintf("#%d", idx+1)
	}
	return strings.Join(parts, ",")
}
