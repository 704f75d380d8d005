package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Vitals are recorded as free-form strings exactly as the clinic wrote them
type Vitals struct {
	Pulse           string `json:"pulse"`
	Temperature     string `json:"temperature"`
	BloodPressure   string `json:"bloodPressure"`
	RespiratoryRate string `json:"respiratoryRate"`
	Height          string `json:"height"`
	Weight          string `json:"weight"`
}

// GeneralExam groups vitals and the clinician's free-text findings
type GeneralExam struct {
	Vitals           Vitals `json:"vitals"`
	ClinicalFindings string `json:"clinicalFindings"`
}

// LabResultType distinguishes typed-in results from file-backed ones
type LabResultType string

const (
	LabResultManual LabResultType = "manual"
	LabResultFile   LabResultType = "file"
)

// FileAttachment is an uploaded file embedded as a data URL.
// It is owned by exactly one LabTestResult.
type FileAttachment struct {
	Name     string `json:"name"`
	Data     string `json:"data"`
	MimeType string `json:"type"`
}

// IsImage reports whether the attachment can be previewed inline
func (f FileAttachment) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

// LabTestResult is the outcome of one lab test or imaging study.
// Content is the manual result text, or the caption for a file-backed result.
type LabTestResult struct {
	Type    LabResultType    `json:"type"`
	Content string           `json:"content"`
	Files   []FileAttachment `json:"files,omitempty"`
}

// Checkup is a single prenatal visit
type Checkup struct {
	ID            string      `json:"id"`
	Date          Date        `json:"date" validate:"required"`
	Place         string      `json:"place"`
	ClinicAddress string      `json:"clinicAddress"`
	Doctor        string      `json:"doctor"`
	GeneralExam   GeneralExam `json:"generalExam"`
	LabTests      LabTests    `json:"labTests"`
	Conclusion    string      `json:"conclusion"`
	Advice        string      `json:"advice"`
}

// LabTests maps a test key to its result and remembers the order tests were added in.
// The JSON form is a plain object whose member order follows insertion.
type LabTests struct {
	keys    []string
	results map[string]LabTestResult
}

// NewLabTests is a convenience for building a LabTests in order
func NewLabTests(pairs ...LabTestEntry) LabTests {
	var lt LabTests
	for _, p := range pairs {
		lt.Set(p.Key, p.Result)
	}
	return lt
}

// LabTestEntry is one key/result pair of a LabTests
type LabTestEntry struct {
	Key    string
	Result LabTestResult
}

func (lt LabTests) Len() int { return len(lt.keys) }

// Keys returns test keys in insertion order
func (lt LabTests) Keys() []string {
	out := make([]string, len(lt.keys))
	copy(out, lt.keys)
	return out
}

func (lt LabTests) Get(key string) (LabTestResult, bool) {
	r, ok := lt.results[key]
	return r, ok
}

func (lt LabTests) Has(key string) bool {
	_, ok := lt.results[key]
	return ok
}

// Set inserts or replaces a result; replacing keeps the original position
func (lt *LabTests) Set(key string, r LabTestResult) {
	if lt.results == nil {
		lt.results = make(map[string]LabTestResult)
	}
	if _, ok := lt.results[key]; !ok {
		lt.keys = append(lt.keys, key)
	}
	lt.results[key] = r
}

func (lt *LabTests) Delete(key string) {
	if _, ok := lt.results[key]; !ok {
		return
	}
	delete(lt.results, key)
	for i, k := range lt.keys {
		if k == key {
			lt.keys = append(lt.keys[:i:i], lt.keys[i+1:]...)
			break
		}
	}
}

// Entries returns key/result pairs in insertion order
func (lt LabTests) Entries() []LabTestEntry {
	out := make([]LabTestEntry, 0, len(lt.keys))
	for _, k := range lt.keys {
		out = append(out, LabTestEntry{Key: k, Result: lt.results[k]})
	}
	return out
}

// Clone returns a deep copy so callers can mutate without aliasing stored state
func (lt LabTests) Clone() LabTests {
	var out LabTests
	for _, e := range lt.Entries() {
		r := e.Result
		if r.Files != nil {
			r.Files = append([]FileAttachment(nil), r.Files...)
		}
		out.Set(e.Key, r)
	}
	return out
}

func (lt LabTests) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range lt.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(lt.results[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (lt *LabTests) UnmarshalJSON(b []byte) error {
	*lt = LabTests{}
	if string(b) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("labTests: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("labTests: expected key, got %v", tok)
		}
		var r LabTestResult
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("labTests[%s]: %w", key, err)
		}
		lt.Set(key, r)
	}
	_, err = dec.Token()
	return err
}

// Clone returns a deep copy of the checkup
func (c Checkup) Clone() Checkup {
	c.LabTests = c.LabTests.Clone()
	return c
}

// Lab test catalog keys
const (
	LabCBC                 = "cbc"
	LabUrinalysis          = "urinalysis"
	LabBiochemistry        = "biochemistry"
	LabImmunology          = "immunology"
	LabMicrobiology        = "microbiology"
	LabAbdominalUltrasound = "abdominalUltrasound"
	LabFetalUltrasound     = "fetalUltrasound"
)

// LabTestDefinition is a catalog entry offered when adding a test to a visit
type LabTestDefinition struct {
	Key  string
	Name string
}

// LabTestCatalog lists the tests offered by default, in menu order
var LabTestCatalog = []LabTestDefinition{
	{Key: LabCBC, Name: "Complete blood count"},
	{Key: LabUrinalysis, Name: "Urinalysis"},
	{Key: LabBiochemistry, Name: "Blood biochemistry"},
	{Key: LabImmunology, Name: "Immunology"},
	{Key: LabMicrobiology, Name: "Microbiology"},
	{Key: LabAbdominalUltrasound, Name: "Abdominal ultrasound"},
	{Key: LabFetalUltrasound, Name: "Fetal ultrasound"},
}

// LabTestName returns the display name for a key, or the key itself when not in the catalog
func LabTestName(key string) string {
	for _, d := range LabTestCatalog {
		if d.Key == key {
			return d.Name
		}
	}
	return key
}

// IsUltrasoundTest reports whether a test key denotes an imaging study.
// Ultrasound results are always file-typed and accumulate multiple attachments.
func IsUltrasoundTest(key string) bool {
	return strings.Contains(strings.ToLower(key), "ultrasound")
}

// NewLabTestResult returns the empty result a freshly added test starts with
func NewLabTestResult(key string) LabTestResult {
	if IsUltrasoundTest(key) {
		return LabTestResult{Type: LabResultFile, Files: []FileAttachment{}}
	}
	return LabTestResult{Type: LabResultManual}
}
