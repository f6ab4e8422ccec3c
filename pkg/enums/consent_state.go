package enums

import "fmt"

// ConsentState records the visitor's cookie decision. The zero value means no
// decision was made yet.
type ConsentState string

const (
	ConsentUnset    ConsentState = ""
	ConsentAccepted ConsentState = "accepted"
	ConsentRejected ConsentState = "rejected"
)

var validConsentStates = []ConsentState{
	ConsentUnset,
	ConsentAccepted,
	ConsentRejected,
}

// String implements fmt.Stringer.
func (c ConsentState) String() string {
	if c == ConsentUnset {
		return "unset"
	}
	return string(c)
}

// IsValid reports whether the value is a known ConsentState.
func (c ConsentState) IsValid() bool {
	for _, candidate := range validConsentStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConsentState converts a stored value into a ConsentState.
func ParseConsentState(value string) (ConsentState, error) {
	for _, candidate := range validConsentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return ConsentUnset, fmt.Errorf("invalid consent state %q", value)
}
