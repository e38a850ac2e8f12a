package bubbletea

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/routai/routai"
	"github.com/routai/routai/polyline"
)

// renderRoute renders the route overview panel: one row per riding day with
// distance, climbing and the first accommodation option.
func (m Model) renderRoute(width int) string {
	if m.fetching {
		return m.styles.Muted.Render("Loading route...")
	}
	if m.routeErr != nil {
		return m.styles.Error.Render("Could not load route: " + m.routeErr.Error())
	}
	if len(m.route) == 0 {
		return m.styles.Muted.Render("No route yet. Ask for one in the chat.")
	}

	cols := routeColumns(width)

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(routeRow(cols, "Day", "Leg", "Km", "Climb", "Stay")))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(strings.Repeat("─", min(width, cols.total()))))

	var totalM, totalClimb int
	for _, seg := range m.route {
		totalM += seg.Route.Distance
		totalClimb += seg.Route.ElevationGain

		leg := legLabel(seg.Route)
		km := fmt.Sprintf("%.0f", seg.Route.DistanceKM())
		climb := fmt.Sprintf("%dm", seg.Route.ElevationGain)
		stay := stayLabel(seg.AccommodationOptions)

		b.WriteString("\n")
		b.WriteString(m.styles.Route.Render(routeRow(cols, fmt.Sprintf("%d", seg.Day), leg, km, climb, stay)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Success.Render(fmt.Sprintf(
		"%d days · %.0f km · %dm climbing",
		len(m.route), float64(totalM)/1000, totalClimb,
	)))
	return b.String()
}

type columns struct {
	day, leg, km, climb, stay int
}

func (c columns) total() int {
	return c.day + c.leg + c.km + c.climb + c.stay + 4*2 // column gaps
}

func routeColumns(width int) columns {
	c := columns{day: 3, km: 5, climb: 6, leg: 30, stay: 20}
	// The leg column absorbs any extra width.
	fixed := c.day + c.km + c.climb + c.stay + 4*2
	if width > fixed+c.leg {
		c.leg = width - fixed - c.stay/2
	}
	return c
}

func routeRow(c columns, day, leg, km, climb, stay string) string {
	return strings.Join([]string{
		pad(day, c.day),
		pad(leg, c.leg),
		pad(km, c.km),
		pad(climb, c.climb),
		pad(stay, c.stay),
	}, "  ")
}

// pad truncates or right-pads a cell to the given display width, so rows
// stay aligned even with wide runes in place names.
func pad(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// legLabel describes one day's ride. Named locations win; otherwise fall
// back to the decoded polyline endpoints.
func legLabel(route routai.Route) string {
	from := route.Origin.Name
	to := route.Destination.Name
	if from == "" || to == "" {
		if path := polyline.Decode(route.Polyline); len(path) >= 2 {
			if from == "" {
				from = coordLabel(path[0])
			}
			if to == "" {
				to = coordLabel(path[len(path)-1])
			}
		}
	}
	if from == "" && to == "" {
		return "(unnamed leg)"
	}
	return from + " → " + to
}

func coordLabel(c routai.Coordinate) string {
	return fmt.Sprintf("%.3f,%.3f", c.Lat, c.Lng)
}

func stayLabel(options []routai.Accommodation) string {
	if len(options) == 0 {
		return "-"
	}
	a := options[0]
	if a.Rating > 0 {
		return fmt.Sprintf("%s (%.1f)", a.Name, a.Rating)
	}
	return a.Name
}
