package handler

import (
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// registrationRequest mirrors the registration form payload. The same shape
// rides inside checkout requests as registrationData, where it may carry a
// password destined for processor metadata.
type registrationRequest struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email" validate:"omitempty,email"`
	Password           string `json:"password,omitempty"`
	Designation        string `json:"designation"`
	Location           string `json:"location"`
	RegistrationType   string `json:"registrationType"`
	ProjectTitle       string `json:"projectTitle,omitempty"`
	ProjectDescription string `json:"projectDescription,omitempty"`
	PosterURL          string `json:"posterUrl,omitempty"`
	WantsQDCMembership bool   `json:"wantsQdcMembership"`
	AgreeToTerms       bool   `json:"agreeToTerms"`
}

func (r registrationRequest) toInput() ports.RegistrationInput {
	return ports.RegistrationInput{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Designation:        r.Designation,
		Location:           r.Location,
		RegistrationType:   r.RegistrationType,
		ProjectTitle:       r.ProjectTitle,
		ProjectDescription: r.ProjectDescription,
		PosterURL:          r.PosterURL,
		WantsQDCMembership: r.WantsQDCMembership,
		AgreeToTerms:       r.AgreeToTerms,
	}
}

func (r registrationRequest) toPending() *domain.PendingRegistration {
	return &domain.PendingRegistration{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Password:           r.Password,
		Designation:        r.Designation,
		Location:           r.Location,
		RegistrationType:   r.RegistrationType,
		ProjectTitle:       r.ProjectTitle,
		ProjectDescription: r.ProjectDescription,
		PosterURL:          r.PosterURL,
		WantsQDCMembership: r.WantsQDCMembership,
		AgreeToTerms:       r.AgreeToTerms,
	}
}
