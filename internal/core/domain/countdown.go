package domain

// DatingMethod records how the EDD was obtained
type DatingMethod string

const (
	MethodNone   DatingMethod = ""
	MethodLMP    DatingMethod = "lmp"
	MethodCRL    DatingMethod = "crl"
	MethodDirect DatingMethod = "direct"
)

// CountdownInputs are the raw values the chosen method was computed from
type CountdownInputs struct {
	LMP            Date     `json:"lmp"`
	CycleLength    int      `json:"cycleLength"`
	CRLMillimeters *float64 `json:"crl,omitempty"`
	CRLDate        Date     `json:"crlDate"`
}

// CountdownData is the stored due-date state.
// EDD is set if and only if Method is set.
type CountdownData struct {
	EDD    Date            `json:"edd"`
	Method DatingMethod    `json:"method"`
	Inputs CountdownInputs `json:"inputs"`
}

// DefaultCountdown is the unset state restored by a reset
func DefaultCountdown() CountdownData {
	return CountdownData{
		Inputs: CountdownInputs{CycleLength: DefaultCycleLengthDays},
	}
}

// IsSet reports whether a due date has been established
func (c CountdownData) IsSet() bool {
	return c.Method != MethodNone && !c.EDD.IsZero()
}

// Recompute derives the EDD again from the stored inputs using the stored method.
// For MethodDirect the stored EDD is returned as-is.
func (c CountdownData) Recompute() (Date, error) {
	switch c.Method {
	case MethodLMP:
		return EDDFromLMP(c.Inputs.LMP, c.Inputs.CycleLength)
	case MethodCRL:
		if c.Inputs.CRLMillimeters == nil {
			return Date{}, ErrInvalidCRL
		}
		return EDDFromCRL(*c.Inputs.CRLMillimeters, c.Inputs.CRLDate)
	case MethodDirect:
		if c.EDD.IsZero() {
			return Date{}, ErrMissingDate
		}
		return c.EDD, nil
	default:
		return Date{}, ErrMissingDate
	}
}
