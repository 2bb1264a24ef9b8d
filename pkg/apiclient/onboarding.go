package apiclient

import (
	"context"
	"errors"
	"sync"
)

// ErrNotSubmittable is returned when Submit is called while the form's
// eligibility rule fails (no grade selected, or a submit in flight).
var ErrNotSubmittable = errors.New("form is not submittable")

const unknownErrorMessage = "An unknown error occurred."

// OnboardingForm models the new-account submission contract: the submit
// control stays disabled until a grade is chosen, only one submission can
// be in flight, business errors surface as a message, and a successful
// submission refreshes the session token so the new account is active.
type OnboardingForm struct {
	client *Client

	mu             sync.Mutex
	grade          int
	school         string
	labels         []string
	previousEvents []string
	inFlight       bool
	errMessage     string
}

func NewOnboardingForm(client *Client) *OnboardingForm {
	return &OnboardingForm{client: client}
}

func (f *OnboardingForm) SetGrade(grade int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grade = grade
	f.errMessage = ""
}

func (f *OnboardingForm) SetSchool(schoolID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.school = schoolID
}

func (f *OnboardingForm) SetLabels(labels []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = labels
}

func (f *OnboardingForm) SetPreviousEvents(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previousEvents = codes
}

// CanSubmit is the submit-eligibility predicate: a grade must be selected
// (zero means unset) and no submission may be in flight.
func (f *OnboardingForm) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grade != 0 && !f.inFlight
}

// IsLoading reports whether a submission is in flight; the caller keeps
// the triggering control disabled while it is.
func (f *OnboardingForm) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Err returns the message to show inline, empty when there is none.
func (f *OnboardingForm) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMessage
}

// Submit posts the profile and, on success, refreshes the session token.
// Business errors keep the server's message; transport errors degrade to
// a generic one. Either way the loading flag clears so the user can retry.
func (f *OnboardingForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.grade == 0 || f.inFlight {
		f.mu.Unlock()
		return ErrNotSubmittable
	}
	f.inFlight = true
	f.errMessage = ""
	input := AccountInput{
		Grade:          f.grade,
		School:         f.school,
		Labels:         f.labels,
		PreviousEvents: f.previousEvents,
	}
	f.mu.Unlock()

	err := f.client.CreateAccount(ctx, input)

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			f.errMessage = apiErr.Message
		} else {
			f.errMessage = unknownErrorMessage
		}
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	return f.client.RefreshToken(ctx)
}
