package pdfdoc

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rocjay1/statement-sorter/internal/extract"
)

const (
	// cellGap is the horizontal gap, in points, that separates two cells.
	cellGap = 8.0
	// lineNudge is how far apart two baselines may be and still count as
	// the same visual line.
	lineNudge = 1.0
)

// linesFromGlyphs groups positioned glyphs into visual lines, top to
// bottom, each line ordered left to right.
func linesFromGlyphs(glyphs []pdf.Text) [][]pdf.Text {
	if len(glyphs) == 0 {
		return nil
	}
	chars := make([]pdf.Text, len(glyphs))
	copy(chars, glyphs)
	sort.Stable(pdf.TextVertical(chars))

	// Snap baselines that differ by less than the nudge.
	old := math.Inf(-1)
	for i, c := range chars {
		if c.Y != old && math.Abs(old-c.Y) < lineNudge {
			chars[i].Y = old
		} else {
			old = c.Y
		}
	}
	sort.Stable(pdf.TextVertical(chars))

	var lines [][]pdf.Text
	for i := 0; i < len(chars); {
		j := i + 1
		for j < len(chars) && chars[j].Y == chars[i].Y {
			j++
		}
		lines = append(lines, chars[i:j])
		i = j
	}
	return lines
}

// cells splits one line into cell strings. Glyphs further apart than a
// sixth of the font size get a space between them; a gap of cellGap or
// more starts a new cell. Whitespace glyphs only widen the gap.
func cells(line []pdf.Text) []string {
	var (
		out     []string
		cur     strings.Builder
		end     float64
		started bool
	)
	flush := func() {
		if c := strings.TrimSpace(cur.String()); c != "" {
			out = append(out, c)
		}
		cur.Reset()
	}

	for _, g := range line {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		if started {
			gap := g.X - end
			switch {
			case gap >= cellGap:
				flush()
			case gap > g.FontSize/6:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(g.S)
		if e := g.X + g.W; !started || e > end {
			end = e
		}
		started = true
	}
	flush()
	return out
}

// tablesFromLines groups consecutive multi-cell lines into tables. Lines
// with a single cell are running text and end the current table.
func tablesFromLines(lines [][]string) []extract.Table {
	var (
		tables  []extract.Table
		current extract.Table
	)
	flush := func() {
		if len(current) > 0 {
			tables = append(tables, current)
			current = nil
		}
	}

	for _, cs := range lines {
		if len(cs) < 2 {
			flush()
			continue
		}
		row := make([]*string, len(cs))
		for i := range cs {
			row[i] = &cs[i]
		}
		current = append(current, row)
	}
	flush()
	return tables
}

// textFromLines renders each visual line as one text line, cells
// separated by a single space.
func textFromLines(lines [][]string) string {
	var b strings.Builder
	for _, cs := range lines {
		b.WriteString(strings.Join(cs, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
