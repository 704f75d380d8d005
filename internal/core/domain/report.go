package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ReportFilePrefix starts the name of every exported record
const ReportFilePrefix = "PregnancyRecord_"

// ReportFileName returns the download name for a report exported on day
func ReportFileName(day Date, ext string) string {
	return fmt.Sprintf("%s%s.%s", ReportFilePrefix, day.String(), strings.TrimPrefix(ext, "."))
}

// ReportInput is everything the report is assembled from
type ReportInput struct {
	Mother    ParentInfo
	Father    ParentInfo
	Checkups  []Checkup
	Countdown CountdownData
}

// LabelValue is a two-column row of the cover section
type LabelValue struct {
	Label string
	Value string
}

// ParentSection is one parent's table on the cover page
type ParentSection struct {
	Heading string
	Rows    []LabelValue
}

// VisitRow is one line of the chronological visit table
type VisitRow struct {
	Sequence       int
	Date           string
	GestationalAge string
	Weight         string
	BloodPressure  string
	Urinalysis     string
	OtherTests     string
	Notes          string
}

// VisitTableHeader names the visit table columns
var VisitTableHeader = []string{
	"No.", "Visit date", "GA (weeks)", "Weight (kg)", "BP (mmHg)", "Urine protein", "Other tests", "Notes & follow-up",
}

// AppendixBlock lists the lab results of one visit
type AppendixBlock struct {
	VisitDate string
	Rows      []LabelValue
}

// Report is the layout-independent content of the printable record
type Report struct {
	Title      string
	Subtitle   string
	Parents    []ParentSection
	Pregnancy  []LabelValue
	Visits     []VisitRow
	Appendix   []AppendixBlock
	ExportedOn Date
}

// BuildReport assembles the report content. Visits are sorted by date, ties keep input order.
func BuildReport(in ReportInput, exportedOn Date) Report {
	rep := Report{
		Title:      "Maternal Health Record",
		Subtitle:   "(for use during pregnancy)",
		ExportedOn: exportedOn,
		Parents: []ParentSection{
			{Heading: "MOTHER", Rows: parentRows(in.Mother)},
			{Heading: "FATHER", Rows: parentRows(in.Father)},
		},
		Pregnancy: pregnancyRows(in.Countdown),
	}

	sorted := SortCheckupsByDate(in.Checkups)
	for i, c := range sorted {
		rep.Visits = append(rep.Visits, visitRow(i+1, c, in.Countdown.EDD))
	}
	for _, c := range sorted {
		if c.LabTests.Len() == 0 {
			continue
		}
		block := AppendixBlock{VisitDate: c.Date.Display()}
		for _, e := range c.LabTests.Entries() {
			block.Rows = append(block.Rows, LabelValue{Label: LabTestName(e.Key), Value: labResultText(e.Result)})
		}
		rep.Appendix = append(rep.Appendix, block)
	}
	return rep
}

// SortCheckupsByDate returns a copy ordered oldest first; equal dates keep their order
func SortCheckupsByDate(checkups []Checkup) []Checkup {
	out := append([]Checkup(nil), checkups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func parentRows(p ParentInfo) []LabelValue {
	birthYear := ""
	if d, err := ParseDate(p.DOB); err == nil && !d.IsZero() {
		birthYear = strconv.Itoa(d.Year())
	}
	all := []LabelValue{
		{Label: "Full name", Value: p.FullName},
		{Label: "Year of birth", Value: birthYear},
		{Label: "Address", Value: p.Address},
		{Label: "Phone", Value: p.Phone},
		{Label: "National ID", Value: p.NationalID},
		{Label: "Health insurance no.", Value: p.HealthInsuranceID},
		{Label: "Medical history", Value: p.MedicalHistory},
	}
	rows := all[:0]
	for _, r := range all {
		if r.Value != "" {
			rows = append(rows, r)
		}
	}
	return rows
}

func pregnancyRows(c CountdownData) []LabelValue {
	var rows []LabelValue
	if c.Method == MethodLMP && !c.Inputs.LMP.IsZero() {
		rows = append(rows, LabelValue{Label: "Last menstrual period:", Value: c.Inputs.LMP.Display()})
	}
	if !c.EDD.IsZero() {
		rows = append(rows, LabelValue{Label: "Estimated due date:", Value: c.EDD.Display()})
	}
	return rows
}

func visitRow(seq int, c Checkup, edd Date) VisitRow {
	var others []string
	for _, k := range c.LabTests.Keys() {
		if k == LabUrinalysis {
			continue
		}
		others = append(others, LabTestName(k))
	}
	urinalysis := NotAvailable
	if r, ok := c.LabTests.Get(LabUrinalysis); ok && r.Content != "" {
		urinalysis = r.Content
	}
	return VisitRow{
		Sequence:       seq,
		Date:           c.Date.Display(),
		GestationalAge: GestationalAgeLabel(c.Date, edd),
		Weight:         orNotAvailable(c.GeneralExam.Vitals.Weight),
		BloodPressure:  orNotAvailable(c.GeneralExam.Vitals.BloodPressure),
		Urinalysis:     urinalysis,
		OtherTests:     orNotAvailable(strings.Join(others, ", ")),
		Notes:          c.Conclusion + "\n" + c.Advice,
	}
}

func labResultText(r LabTestResult) string {
	if r.Type != LabResultFile {
		return r.Content
	}
	var names []string
	for _, f := range r.Files {
		names = append(names, f.Name)
	}
	label := r.Content
	if len(names) > 0 {
		label = strings.Join(names, ", ")
		if r.Content != "" {
			label = r.Content + " (" + label + ")"
		}
	}
	return "Attachment: " + label
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// ExportStamp returns the local calendar day of now, which names the exported file
func ExportStamp(now time.Time) Date {
	return DateOf(now.Local())
}
