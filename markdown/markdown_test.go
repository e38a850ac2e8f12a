package markdown_test

import (
	"strings"
	"testing"

	"github.com/routai/routai"
	"github.com/routai/routai/markdown"
	"github.com/stretchr/testify/assert"
)

// noColor renders without ANSI sequences so tests can assert plain text.
var noColor = routai.Theme{UserMsg: -1, Error: -1, Success: -1, Muted: -1, CodeBg: -1, Accent: -1, Route: -1}

func TestRender_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, markdown.Render("", 80, noColor))
}

func TestRender_Paragraph(t *testing.T) {
	t.Parallel()
	out := markdown.Render("A flat ride along the river.", 80, noColor)
	assert.Contains(t, out, "A flat ride along the river.")
}

func TestRender_WrapsToWidth(t *testing.T) {
	t.Parallel()
	out := markdown.Render("day one goes from London to Cambridge with a stop for lunch", 20, noColor)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Greater(t, strings.Count(out, "\n"), 0)
}

func TestRender_List(t *testing.T) {
	t.Parallel()
	out := markdown.Render("- first leg\n- second leg", 80, noColor)
	assert.Contains(t, out, "- first leg")
	assert.Contains(t, out, "- second leg")
}

func TestRender_OrderedList(t *testing.T) {
	t.Parallel()
	out := markdown.Render("1. London\n2. Cambridge\n3. Leeds", 80, noColor)
	assert.Contains(t, out, "1. London")
	assert.Contains(t, out, "3. Leeds")
}

func TestRender_FencedCode(t *testing.T) {
	t.Parallel()
	out := markdown.Render("```\ngpx export\n```", 80, noColor)
	assert.Contains(t, out, "│ gpx export")
}

func TestRender_Heading(t *testing.T) {
	t.Parallel()
	out := markdown.Render("# Day 1", 80, noColor)
	assert.Contains(t, out, "Day 1")
}

func TestRender_Link(t *testing.T) {
	t.Parallel()
	out := markdown.Render("[inn](https://maps.example/inn)", 80, noColor)
	assert.Contains(t, out, "inn")
	assert.Contains(t, out, "(https://maps.example/inn)")
}
