package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	table := NewTable("NAME", "PRICE")
	table.AddRow("Cheeseburger", "5.50")
	table.AddRow("Fries", "2.00")

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Cheeseburger")
	assert.Contains(t, lines[2], "Fries")
	assert.Equal(t, 2, table.Len())
}

func TestTableShortRow(t *testing.T) {
	table := NewTable("A", "B", "C")
	table.AddRow("only")

	out := table.Render()
	assert.Contains(t, out, "only")
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("boom"), "boom")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("fyi"), "fyi")
}
