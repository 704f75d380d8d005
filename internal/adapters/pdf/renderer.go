// Package pdf lays a domain.Report out as an A4 portrait PDF document.
package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// Page geometry in millimetres
const (
	pageWidth  = 210.0
	marginLeft = 14.0
	contentW   = pageWidth - 2*marginLeft
	topY       = 20.0
	pageBottom = 282.0
	ptToMM     = 25.4 / 72
	sectionGap = 10.0

	// break thresholds before the appendix heading and before each appendix block
	appendixHeadingBreak = 250.0
	appendixBlockBreak   = 260.0
)

var visitColumnWidths = []float64{10, 20, 15, 18, 20, 25, 30, contentW - 138}
var visitColumnAligns = []string{"C", "", "C", "C", "C", "", "", ""}

// Renderer implements ports.DocumentRenderer with fpdf
type Renderer struct {
	fontURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewRenderer creates a renderer. An empty fontURL skips the download and uses the built-in font.
func NewRenderer(fontURL string, log zerolog.Logger) *Renderer {
	return &Renderer{
		fontURL: fontURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "pdf_renderer").Logger(),
	}
}

func (r *Renderer) Extension() string { return "pdf" }

func (r *Renderer) Render(ctx context.Context, rep domain.Report, w io.Writer) error {
	font := r.loadFont(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := compose(rep, font)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

type layout struct {
	doc     *fpdf.Fpdf
	font    bodyFont
	tr      func(string) string
	unicode bool
}

func (l *layout) newPage() float64 {
	l.doc.AddPage()
	l.doc.SetFont(l.font.family, "", 10)
	return topY
}

func (l *layout) text(x, y float64, size float64, style, s string) {
	l.doc.SetFont(l.font.family, style, size)
	l.doc.Text(x, y, l.tr(s))
}

func (l *layout) centered(y, size float64, s string) {
	l.doc.SetFont(l.font.family, "", size)
	t := l.tr(s)
	l.doc.Text((pageWidth-l.doc.GetStringWidth(t))/2, y, t)
}

func compose(rep domain.Report, font bodyFont) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginLeft, topY, marginLeft)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(rep.Title, true)
	doc.SetCreator("pregnancy-tracker", true)
	if !rep.ExportedOn.IsZero() {
		doc.SetCreationDate(rep.ExportedOn.Time())
	}

	l := &layout{doc: doc, font: font, tr: func(s string) string { return s }}
	if font.data != nil {
		doc.AddUTF8FontFromBytes(font.family, "", font.data)
		doc.AddUTF8FontFromBytes(font.family, "B", font.data)
		l.unicode = true
	} else {
		l.tr = doc.UnicodeTranslatorFromDescriptor("")
	}

	l.coverPage(rep)
	l.visitPages(rep)

	if doc.Err() {
		return nil, fmt.Errorf("failed to lay out report: %w", doc.Error())
	}
	return doc, nil
}

func (l *layout) coverPage(rep domain.Report) {
	l.newPage()
	l.centered(20, 20, rep.Title)
	l.centered(28, 14, rep.Subtitle)
	l.text(marginLeft, 40, 16, "", "I. PARENTS")

	y := 45.0
	for i, p := range rep.Parents {
		if i > 0 {
			y += 5
		}
		y = l.drawTable(table{
			header:   []string{p.Heading},
			widths:   []float64{contentW},
			rows:     nil,
			headFill: headerIndigo,
			fontSize: 10,
			grid:     true,
		}, y)
		y = l.drawTable(table{
			widths:   []float64{55, contentW - 55},
			rows:     labelRows(p.Rows),
			fontSize: 10,
			grid:     true,
		}, y)
	}

	l.text(marginLeft, y+15, 16, "", "II. THIS PREGNANCY")
	if len(rep.Pregnancy) > 0 {
		l.drawTable(table{
			widths:   []float64{55, contentW - 55},
			rows:     labelRows(rep.Pregnancy),
			fontSize: 11,
		}, y+18)
	}
}

func (l *layout) visitPages(rep domain.Report) {
	y := l.newPage()
	l.text(marginLeft, y, 16, "", "III. ANTENATAL VISITS")

	rows := make([][]string, 0, len(rep.Visits))
	for _, v := range rep.Visits {
		rows = append(rows, []string{
			strconv.Itoa(v.Sequence), v.Date, v.GestationalAge, v.Weight,
			v.BloodPressure, v.Urinalysis, v.OtherTests, v.Notes,
		})
	}
	y = l.drawTable(table{
		header:   domain.VisitTableHeader,
		widths:   visitColumnWidths,
		aligns:   visitColumnAligns,
		rows:     rows,
		headFill: headerIndigo,
		fontSize: 9,
		grid:     true,
	}, y+5)

	if len(rep.Appendix) == 0 {
		return
	}
	y += 15
	if y > appendixHeadingBreak {
		y = l.newPage()
	}
	l.text(marginLeft, y, 16, "", "IV. LAB AND IMAGING DETAILS")
	y += 8

	for _, block := range rep.Appendix {
		if y > appendixBlockBreak {
			y = l.newPage()
		}
		l.doc.SetTextColor(100, 100, 100)
		l.text(marginLeft, y, 12, "", "Visit date: "+block.VisitDate)
		l.doc.SetTextColor(0, 0, 0)
		y += 2
		y = l.drawTable(table{
			header:   []string{"Test", "Result"},
			widths:   []float64{70, contentW - 70},
			rows:     labelRows(block.Rows),
			headFill: headerGrey,
			fontSize: 9,
			striped:  true,
		}, y)
		y += sectionGap
	}
}

func labelRows(in []domain.LabelValue) [][]string {
	out := make([][]string, 0, len(in))
	for _, lv := range in {
		out = append(out, []string{lv.Label, lv.Value})
	}
	return out
}

var _ ports.DocumentRenderer = (*Renderer)(nil)
