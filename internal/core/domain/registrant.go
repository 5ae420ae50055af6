package domain

import (
	"errors"
	"time"
)

// RegistrationType identifies the workshop attendance tier.
type RegistrationType string

const (
	TypeStudentInPerson      RegistrationType = "student_in_person"
	TypeStudentOnline        RegistrationType = "student_online"
	TypeProfessionalInPerson RegistrationType = "professional_in_person"
	TypeProfessionalOnline   RegistrationType = "professional_online"
)

// registrationAmounts maps each tier to its fee in minor currency units (cents).
var registrationAmounts = map[RegistrationType]int64{
	TypeStudentInPerson:      3000,  // $30.00
	TypeStudentOnline:        1500,  // $15.00
	TypeProfessionalInPerson: 10000, // $100.00
	TypeProfessionalOnline:   5000,  // $50.00
}

// AmountCents returns the registration fee for the tier. The second return
// value is false for unknown tiers.
func (t RegistrationType) AmountCents() (int64, bool) {
	amount, ok := registrationAmounts[t]
	return amount, ok
}

// Valid reports whether t is one of the four known tiers.
func (t RegistrationType) Valid() bool {
	_, ok := registrationAmounts[t]
	return ok
}

// PaymentStatus marks whether a completed payment has been processed for a
// registrant. There is no richer state machine: a row is either paid or not.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

var (
	ErrRegistrantNotFound = errors.New("registrant not found")
	ErrInvalidCredentials = errors.New("invalid credentials or payment not found")
	ErrPasswordMismatch   = errors.New("invalid email or password")
	ErrAccountIncomplete  = errors.New("account setup incomplete")
	ErrPasswordAlreadySet = errors.New("password already set")
	ErrInvalidSession     = errors.New("invalid session")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrUnknownTier        = errors.New("unknown registration type")
	ErrNewsParse          = errors.New("failed to parse news data")
)

// ValidationError is a client-fault error whose message is safe to return
// verbatim in the {"error": ...} envelope with a 400 status.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

// Registrant is a person who submitted the registration form, whether or not
// payment has completed. Email (lowercased) plus paid status is the lookup
// key for member authentication.
type Registrant struct {
	ID                 string           `json:"id"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	Email              string           `json:"email"`
	Designation        string           `json:"designation"`
	Location           string           `json:"location"`
	RegistrationType   RegistrationType `json:"registration_type"`
	ProjectTitle       string           `json:"project_title,omitempty"`
	ProjectDescription string           `json:"project_description,omitempty"`
	PosterURL          string           `json:"poster_url,omitempty"`
	WantsQDCMembership bool             `json:"wants_qdc_membership"`
	AgreeToTerms       bool             `json:"agree_to_terms"`
	PasswordHash       string           `json:"-"`
	PaymentStatus      PaymentStatus    `json:"payment_status"`
	CheckoutSessionID  string           `json:"stripe_checkout_session_id,omitempty"`
	PaymentIntentID    string           `json:"stripe_payment_intent_id,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	PaidAt             *time.Time       `json:"paid_at,omitempty"`
}

// IsMember reports whether the registrant can use the member area: payment
// completed and credentials set.
func (r *Registrant) IsMember() bool {
	return r.PaymentStatus == PaymentPaid && r.PasswordHash != ""
}

// MemberProfile is the sanitized projection returned to authenticated
// members. It never carries the password hash.
type MemberProfile struct {
	ID                 string `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	RegistrationType   string `json:"registration_type"`
	ProjectTitle       string `json:"project_title,omitempty"`
	ProjectDescription string `json:"project_description,omitempty"`
	PosterURL          string `json:"poster_url,omitempty"`
}

// Profile returns the member-facing projection of the registrant.
func (r *Registrant) Profile() *MemberProfile {
	return &MemberProfile{
		ID:                 r.ID,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		RegistrationType:   string(r.RegistrationType),
		ProjectTitle:       r.ProjectTitle,
		ProjectDescription: r.ProjectDescription,
		PosterURL:          r.PosterURL,
	}
}
