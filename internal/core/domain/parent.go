package domain

import "fmt"

// ParentRole selects which of the two parent profiles is addressed
type ParentRole string

const (
	ParentMother ParentRole = "mother"
	ParentFather ParentRole = "father"
)

// Key returns the record key the profile is stored under
func (r ParentRole) Key() (RecordKey, error) {
	switch r {
	case ParentMother:
		return KeyMotherInfo, nil
	case ParentFather:
		return KeyFatherInfo, nil
	default:
		return "", fmt.Errorf("%w: unknown parent %q", ErrInvalidInput, string(r))
	}
}

// ParentInfo holds demographic and medical-history fields for one parent
type ParentInfo struct {
	Avatar                string `json:"avatar,omitempty"` // embedded data URL
	FullName              string `json:"fullName"`
	DOB                   string `json:"dob"`
	Gender                string `json:"gender"`
	Nationality           string `json:"nationality"`
	Address               string `json:"address"`
	NationalID            string `json:"nationalId"`
	HealthInsuranceID     string `json:"healthInsuranceId"`
	HealthInsuranceExpiry string `json:"healthInsuranceExpiry"`
	Phone                 string `json:"phone"`
	BloodType             string `json:"bloodType"`
	MedicalHistory        string `json:"medicalHistory"`
}

// FieldKind is the input widget a profile field is edited with
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldDate     FieldKind = "date"
	FieldChoice   FieldKind = "choice"
	FieldTextArea FieldKind = "textarea"
	FieldPhone    FieldKind = "tel"
)

// ParentField describes one editable ParentInfo field.
// The list is explicit so that adding a field to ParentInfo is a compile-checked change here.
type ParentField struct {
	Name    string
	Label   string
	Kind    FieldKind
	Choices []string
	Get     func(*ParentInfo) string
	Set     func(*ParentInfo, string)
}

// Genders offered for the gender field
var Genders = []string{"male", "female"}

// ParentFields lists the editable profile fields in display order (avatar excluded)
var ParentFields = []ParentField{
	{Name: "fullName", Label: "Full name", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.FullName }, Set: func(p *ParentInfo, v string) { p.FullName = v }},
	{Name: "dob", Label: "Date of birth", Kind: FieldDate,
		Get: func(p *ParentInfo) string { return p.DOB }, Set: func(p *ParentInfo, v string) { p.DOB = v }},
	{Name: "gender", Label: "Gender", Kind: FieldChoice, Choices: Genders,
		Get: func(p *ParentInfo) string { return p.Gender }, Set: func(p *ParentInfo, v string) { p.Gender = v }},
	{Name: "nationality", Label: "Nationality", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.Nationality }, Set: func(p *ParentInfo, v string) { p.Nationality = v }},
	{Name: "address", Label: "Address", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.Address }, Set: func(p *ParentInfo, v string) { p.Address = v }},
	{Name: "nationalId", Label: "National ID", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.NationalID }, Set: func(p *ParentInfo, v string) { p.NationalID = v }},
	{Name: "healthInsuranceId", Label: "Health insurance no.", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.HealthInsuranceID }, Set: func(p *ParentInfo, v string) { p.HealthInsuranceID = v }},
	{Name: "healthInsuranceExpiry", Label: "Insurance expiry", Kind: FieldDate,
		Get: func(p *ParentInfo) string { return p.HealthInsuranceExpiry }, Set: func(p *ParentInfo, v string) { p.HealthInsuranceExpiry = v }},
	{Name: "phone", Label: "Phone", Kind: FieldPhone,
		Get: func(p *ParentInfo) string { return p.Phone }, Set: func(p *ParentInfo, v string) { p.Phone = v }},
	{Name: "bloodType", Label: "Blood type", Kind: FieldText,
		Get: func(p *ParentInfo) string { return p.BloodType }, Set: func(p *ParentInfo, v string) { p.BloodType = v }},
	{Name: "medicalHistory", Label: "Medical history", Kind: FieldTextArea,
		Get: func(p *ParentInfo) string { return p.MedicalHistory }, Set: func(p *ParentInfo, v string) { p.MedicalHistory = v }},
}

// LookupParentField finds a field descriptor by its name
func LookupParentField(name string) (ParentField, bool) {
	for _, f := range ParentFields {
		if f.Name == name {
			return f, true
		}
	}
	return ParentField{}, false
}

// Validate checks a value against the field's kind
func (f ParentField) Validate(value string) error {
	switch f.Kind {
	case FieldChoice:
		if value == "" {
			return nil
		}
		for _, c := range f.Choices {
			if c == value {
				return nil
			}
		}
		return fmt.Errorf("%w: %s must be one of %v", ErrInvalidInput, f.Name, f.Choices)
	case FieldDate:
		if _, err := ParseDate(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, f.Name, err)
		}
	}
	return nil
}
