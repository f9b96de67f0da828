package service

import (
	"errors"
	"fmt"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
)

// Phase is the presenter state: Idle → Submitting → Displaying, re-entered on
// every submission.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseDisplaying Phase = "displaying"
)

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a dismissible message shown above the result.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// Form is the state of one calculator form. Every transition returns a new
// Form and leaves the receiver untouched.
type Form struct {
	Variant domain.Variant            `json:"variant"`
	Values  map[domain.Field]string   `json:"values"`
	Errors  domain.ValidationErrors   `json:"errors,omitempty"`
	Touched map[domain.Field]bool     `json:"touched,omitempty"`
	Phase   Phase                     `json:"phase"`
	Result  *domain.CalculationResult `json:"result,omitempty"`
	Notice  *Notice                   `json:"notice,omitempty"`
}

func NewForm(variant domain.Variant) Form {
	values := variant.InitialValues()
	return Form{
		Variant: variant,
		Values:  values,
		Errors:  ValidateAll(variant, values),
		Touched: map[domain.Field]bool{},
		Phase:   PhaseIdle,
	}
}

func (f Form) clone() Form {
	out := f
	out.Values = make(map[domain.Field]string, len(f.Values))
	for k, v := range f.Values {
		out.Values[k] = v
	}
	out.Errors = make(domain.ValidationErrors, len(f.Errors))
	for k, v := range f.Errors {
		out.Errors[k] = v
	}
	out.Touched = make(map[domain.Field]bool, len(f.Touched))
	for k, v := range f.Touched {
		out.Touched[k] = v
	}
	if f.Result != nil {
		r := *f.Result
		out.Result = &r
	}
	if f.Notice != nil {
		n := *f.Notice
		out.Notice = &n
	}
	return out
}

func (f Form) hasField(field domain.Field) bool {
	for _, candidate := range f.Variant.Fields() {
		if candidate == field {
			return true
		}
	}
	return false
}

// Change sets a field value and re-validates that field. Fields that do not
// belong to the variant are ignored.
func (f Form) Change(field domain.Field, value string) Form {
	if !f.hasField(field) {
		return f
	}
	out := f.clone()
	out.Values[field] = value
	if _, verr := ValidateField(field, value); verr != nil {
		out.Errors[field] = *verr
	} else {
		delete(out.Errors, field)
	}
	return out
}

// Touch marks a field as visited so its error becomes visible.
func (f Form) Touch(field domain.Field) Form {
	if !f.hasField(field) {
		return f
	}
	out := f.clone()
	out.Touched[field] = true
	return out
}

// FieldError returns the reason to display next to the field, or "" while
// the field is valid or untouched.
func (f Form) FieldError(field domain.Field) string {
	if !f.Touched[field] {
		return ""
	}
	return f.Errors[field].Reason
}

func (f Form) Valid() bool {
	return len(f.Errors) == 0
}

// Busy reports whether a submission is in flight.
func (f Form) Busy() bool {
	return f.Phase == PhaseSubmitting
}

// BeginSubmit touches and re-validates every field. It returns false, with
// the previous phase and result kept, while any field is invalid.
func (f Form) BeginSubmit() (Form, bool) {
	out := f.clone()
	for _, field := range f.Variant.Fields() {
		out.Touched[field] = true
	}
	out.Errors = ValidateAll(f.Variant, out.Values)
	if len(out.Errors) > 0 || f.Busy() {
		return out, false
	}
	out.Phase = PhaseSubmitting
	return out, true
}

// CompleteSubmit finishes a submission started with BeginSubmit. The result
// replaces any previous one.
func (f Form) CompleteSubmit(result domain.CalculationResult, err error) Form {
	out := f.clone()
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			out.Errors = verrs
		} else {
			out.Notice = &Notice{Kind: NoticeError, Text: fmt.Sprintf("Calculation failed: %v", err)}
		}
		out.Phase = PhaseIdle
		if out.Result != nil {
			out.Phase = PhaseDisplaying
		}
		return out
	}
	out.Result = &result
	out.Phase = PhaseDisplaying
	return out
}

// Reset returns a fresh form of the same variant.
func (f Form) Reset() Form {
	return NewForm(f.Variant)
}

// Copy hands the displayed result to the clipboard. Failures only produce a
// notice.
func (f Form) Copy(clip repository.Clipboard) Form {
	out := f.clone()
	if f.Result == nil {
		out.Notice = &Notice{Kind: NoticeError, Text: "Nothing to copy yet, calculate first."}
		return out
	}
	if err := clip.WriteAll(ResultText(*f.Result)); err != nil {
		out.Notice = &Notice{Kind: NoticeError, Text: fmt.Sprintf("Could not copy to clipboard: %v", err)}
		return out
	}
	out.Notice = &Notice{Kind: NoticeInfo, Text: "Result copied to clipboard."}
	return out
}

func (f Form) DismissNotice() Form {
	out := f.clone()
	out.Notice = nil
	return out
}
