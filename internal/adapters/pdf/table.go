package pdf

import (
	"strings"
	"unicode/utf8"
)

type rgb struct{ r, g, b int }

var (
	headerIndigo = rgb{79, 70, 229}
	headerGrey   = rgb{107, 114, 128}
	stripeGrey   = rgb{245, 245, 245}
)

type table struct {
	header   []string
	widths   []float64
	aligns   []string // per column; "" means left
	rows     [][]string
	headFill rgb
	fontSize float64
	grid     bool
	striped  bool
}

const cellPadding = 1.5

func (l *layout) lineHeight(size float64) float64 {
	return size * ptToMM * 1.2
}

func (l *layout) rowHeight(cells []string, widths []float64, size float64) (float64, [][]string) {
	lines := make([][]string, len(cells))
	maxLines := 1
	for i, c := range cells {
		lines[i] = l.wrap(l.tr(c), widths[i]-2*cellPadding)
		if len(lines[i]) > maxLines {
			maxLines = len(lines[i])
		}
	}
	return float64(maxLines)*l.lineHeight(size) + 2*cellPadding, lines
}

func (l *layout) drawRow(y float64, widths []float64, aligns []string, lines [][]string, h, size float64, fill *rgb, border bool) {
	x := marginLeft
	lh := l.lineHeight(size)
	for i, w := range widths {
		style := ""
		if fill != nil {
			l.doc.SetFillColor(fill.r, fill.g, fill.b)
			style = "F"
		}
		if border {
			style += "D"
		}
		if style != "" {
			l.doc.Rect(x, y, w, h, style)
		}
		align := "L"
		if i < len(aligns) && aligns[i] != "" {
			align = aligns[i]
		}
		for j, line := range lines[i] {
			l.doc.SetXY(x+cellPadding, y+cellPadding+float64(j)*lh)
			l.doc.CellFormat(w-2*cellPadding, lh, line, "", 0, align, false, 0, "")
		}
		x += w
	}
}

// drawTable places t starting at y and returns the y just below its last row.
// A row is never split: if it does not fit above the page bottom it moves to a
// new page, where the header is drawn again.
func (l *layout) drawTable(t table, y float64) float64 {
	var headH float64
	var headLines [][]string
	if t.header != nil {
		headH, headLines = l.rowHeight(t.header, t.widths, t.fontSize)
	}
	drawHeader := func() {
		if t.header == nil {
			return
		}
		l.doc.SetFont(l.font.family, "B", t.fontSize)
		l.doc.SetTextColor(255, 255, 255)
		aligns := make([]string, len(t.widths))
		for i := range aligns {
			aligns[i] = "C"
		}
		l.drawRow(y, t.widths, aligns, headLines, headH, t.fontSize, &t.headFill, t.grid)
		l.doc.SetTextColor(0, 0, 0)
		l.doc.SetFont(l.font.family, "", t.fontSize)
		y += headH
	}

	l.doc.SetFont(l.font.family, "", t.fontSize)
	firstH := 0.0
	if len(t.rows) > 0 {
		firstH, _ = l.rowHeight(t.rows[0], t.widths, t.fontSize)
	}
	if y+headH+firstH > pageBottom && y > topY {
		y = l.newPage()
	}
	drawHeader()
	pageStart := y

	for i, row := range t.rows {
		h, lines := l.rowHeight(row, t.widths, t.fontSize)
		if y+h > pageBottom && y > pageStart {
			y = l.newPage()
			drawHeader()
			pageStart = y
		}
		var fill *rgb
		if t.striped && i%2 == 1 {
			fill = &stripeGrey
		}
		l.drawRow(y, t.widths, t.aligns, lines, h, t.fontSize, fill, t.grid)
		y += h
	}
	l.doc.SetY(y)
	return y
}

// wrap breaks already-translated text into lines no wider than w.
// Explicit newlines always break; words wider than w are cut.
func (l *layout) wrap(s string, w float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if l.doc.GetStringWidth(candidate) <= w {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
				line = ""
			}
			for l.doc.GetStringWidth(word) > w {
				n := l.fit(word, w)
				out = append(out, word[:n])
				word = word[n:]
			}
			line = word
		}
		out = append(out, line)
	}
	return out
}

// fit returns how many leading bytes of word fit in w, at least one character
func (l *layout) fit(word string, w float64) int {
	step := func(i int) int {
		if !l.unicode {
			return 1
		}
		_, size := utf8.DecodeRuneInString(word[i:])
		return size
	}
	n := step(0)
	for n < len(word) {
		next := n + step(n)
		if l.doc.GetStringWidth(word[:next]) > w {
			break
		}
		n = next
	}
	return n
}
