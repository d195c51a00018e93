package application

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
)

// Registration wizard steps.
type Step int

const (
	StepWelcome Step = iota + 1
	StepRole
	StepAccount
	StepProfile
	StepPayout // only rendered when the form carries at least one seller role
	StepTerms
)

// RegistrationForm is the full wizard payload. The client walks the steps;
// the server re-validates every guard on submit.
type RegistrationForm struct {
	// Role step
	SellerRoles []string `json:"sellerRoles"`
	BuyerType   string   `json:"buyerType"`

	// Account step
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	SocialLogin bool   `json:"socialLogin"`

	// Profile step (all optional)
	Bio         string `json:"bio"`
	Quote       string `json:"quote"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	Country     string `json:"country"`

	// Payout step
	KVKNumber string `json:"kvkNumber"`
	VATNumber string `json:"vatNumber"`
	TaxAcked  bool   `json:"taxAcked"`

	// Terms step
	PrivacyAccepted bool `json:"privacyAccepted"`
	TermsAccepted   bool `json:"termsAccepted"`

	// Signup invite
	InviteToken string `json:"inviteToken,omitempty"`
}

// HasSellerRole reports whether the form selects at least one seller role.
func (f *RegistrationForm) HasSellerRole() bool {
	return len(f.SellerRoles) > 0
}

var validSellerRoles = map[string]bool{
	entity.SellerRoleChef:     true,
	entity.SellerRoleGarden:   true,
	entity.SellerRoleDesigner: true,
}

// Wizard tracks the current step of a registration in progress. Advance
// attempts that fail the current step's guard leave the step unchanged.
type Wizard struct {
	Form    *RegistrationForm
	Current Step

	// UsernameValid mirrors the async username validator's tri-state
	// result: nil means unknown (check pending or never run).
	UsernameValid *bool
}

// NewWizard starts a wizard at the welcome step.
func NewWizard(form *RegistrationForm) *Wizard {
	return &Wizard{Form: form, Current: StepWelcome}
}

// Guard errors.
var (
	ErrNoRoleSelected     = errors.New("select at least one seller role or a buyer type")
	ErrAccountIncomplete  = errors.New("first name, last name, username and email are required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameNotChecked = errors.New("username has not been validated")
	ErrUsernameTaken      = errors.New("username is not available")
	ErrTaxNotAcked        = errors.New("tax responsibility must be acknowledged")
	ErrTermsNotAccepted   = errors.New("privacy policy and terms must be accepted")
	ErrInvalidStep        = errors.New("invalid step")
)

// GuardFor validates the guard that gates leaving the given step.
func (w *Wizard) GuardFor(s Step) error {
	f := w.Form
	switch s {
	case StepWelcome:
		return nil // unconditional
	case StepRole:
		if !f.HasSellerRole() && f.BuyerType == "" {
			return ErrNoRoleSelected
		}
		for _, r := range f.SellerRoles {
			if !validSellerRoles[r] {
				return errors.New("unknown seller role: " + r)
			}
		}
		return nil
	case StepAccount:
		if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" ||
			strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Email) == "" {
			return ErrAccountIncomplete
		}
		if !f.SocialLogin && f.Password == "" {
			return ErrPasswordRequired
		}
		if w.UsernameValid == nil {
			return ErrUsernameNotChecked
		}
		if !*w.UsernameValid {
			return ErrUsernameTaken
		}
		return nil
	case StepProfile:
		return nil // unconditional
	case StepPayout:
		if !f.TaxAcked {
			return ErrTaxNotAcked
		}
		return nil
	case StepTerms:
		if !f.PrivacyAccepted || !f.TermsAccepted {
			return ErrTermsNotAccepted
		}
		return nil
	default:
		return ErrInvalidStep
	}
}

// next returns the step after s, skipping payout for non-sellers.
func (w *Wizard) next(s Step) Step {
	n := s + 1
	if n == StepPayout && !w.Form.HasSellerRole() {
		n = StepTerms
	}
	if n > StepTerms {
		n = StepTerms
	}
	return n
}

// prev returns the step before s, skipping payout for non-sellers.
func (w *Wizard) prev(s Step) Step {
	p := s - 1
	if p == StepPayout && !w.Form.HasSellerRole() {
		p = StepProfile
	}
	if p < StepWelcome {
		p = StepWelcome
	}
	return p
}

// Next advances the wizard when the current step's guard passes. On a
// guard failure the current step is unchanged and the error is returned.
func (w *Wizard) Next() error {
	if err := w.GuardFor(w.Current); err != nil {
		return err
	}
	w.Current = w.next(w.Current)
	return nil
}

// Prev moves back one step. Going back has no guard.
func (w *Wizard) Prev() {
	w.Current = w.prev(w.Current)
}

// StepError pairs a failed guard with its step for aggregated submit errors.
type StepError struct {
	Step Step
	Err  error
}

func (e StepError) Error() string { return e.Err.Error() }

// ValidateAll walks every applicable step guard plus the final submit
// requirements and returns all violations. An empty slice means the form
// is complete and submittable.
func (w *Wizard) ValidateAll() []StepError {
	var out []StepError
	for s := StepWelcome; s <= StepTerms; s++ {
		if s == StepPayout && !w.Form.HasSellerRole() {
			continue
		}
		if err := w.GuardFor(s); err != nil {
			out = append(out, StepError{Step: s, Err: err})
		}
	}
	return out
}

// Username format: lowercase letters, digits, dot, underscore, hyphen.
var usernameRe = regexp.MustCompile(`^[a-z0-9._-]+$`)

const usernameMinLen = 3

// ValidationResult is the tri-state async validator outcome. A nil
// *ValidationResult upstream means unknown.
type ValidationResult struct {
	Valid   bool   `json:"isValid"`
	Message string `json:"message"`
}

// CheckUsernameFormat applies the local rules that run before any store
// lookup. ok=false means the caller must not hit the store at all.
func CheckUsernameFormat(username string) (normalized string, res *ValidationResult, ok bool) {
	normalized = strings.ToLower(strings.TrimSpace(username))
	if len(normalized) < usernameMinLen {
		return normalized, &ValidationResult{Valid: false, Message: "gebruikersnaam moet minimaal 3 tekens zijn"}, false
	}
	if !usernameRe.MatchString(normalized) {
		return normalized, &ValidationResult{Valid: false, Message: "alleen kleine letters, cijfers, punt, underscore en streepje"}, false
	}
	return normalized, nil, true
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CheckEmailFormat applies the local email rules before any store lookup.
func CheckEmailFormat(email string) (normalized string, res *ValidationResult, ok bool) {
	normalized = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(normalized) {
		return normalized, &ValidationResult{Valid: false, Message: "ongeldig e-mailadres"}, false
	}
	return normalized, nil, true
}
