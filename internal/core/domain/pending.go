package domain

import "unicode/utf8"

// metadataValueLimit is the payment processor's per-value ceiling for
// metadata entries. Every packed value is truncated to this length.
const metadataValueLimit = 500

// PendingRegistration is the full registration payload held in the payment
// processor's metadata map between checkout creation and the success
// webhook. Under the deferred persistence strategy this is the only place
// the data lives until payment completes.
type PendingRegistration struct {
	// RegistrationID links back to a row written at intake time under the
	// immediate persistence strategy; empty under deferred.
	RegistrationID     string
	FirstName          string
	LastName           string
	Email              string
	Password           string
	Designation        string
	Location           string
	RegistrationType   string
	ProjectTitle       string
	ProjectDescription string
	PosterURL          string
	WantsQDCMembership bool
	AgreeToTerms       bool
}

// Metadata packs the pending registration into a string map suitable for
// processor metadata, truncating each value to the 500-character limit.
func (p PendingRegistration) Metadata() map[string]string {
	return map[string]string{
		"registrationId":     truncateMeta(p.RegistrationID),
		"firstName":          truncateMeta(p.FirstName),
		"lastName":           truncateMeta(p.LastName),
		"email":              truncateMeta(p.Email),
		"password":           truncateMeta(p.Password),
		"designation":        truncateMeta(p.Designation),
		"location":           truncateMeta(p.Location),
		"registrationType":   truncateMeta(p.RegistrationType),
		"projectTitle":       truncateMeta(p.ProjectTitle),
		"projectDescription": truncateMeta(p.ProjectDescription),
		"posterUrl":          truncateMeta(p.PosterURL),
		"wantsQdcMembership": boolMeta(p.WantsQDCMembership),
		"agreeToTerms":       boolMeta(p.AgreeToTerms),
	}
}

// PendingFromMetadata reverses Metadata. Absent keys yield zero values.
func PendingFromMetadata(meta map[string]string) PendingRegistration {
	return PendingRegistration{
		RegistrationID:     meta["registrationId"],
		FirstName:          meta["firstName"],
		LastName:           meta["lastName"],
		Email:              meta["email"],
		Password:           meta["password"],
		Designation:        meta["designation"],
		Location:           meta["location"],
		RegistrationType:   meta["registrationType"],
		ProjectTitle:       meta["projectTitle"],
		ProjectDescription: meta["projectDescription"],
		PosterURL:          meta["posterUrl"],
		WantsQDCMembership: meta["wantsQdcMembership"] == "true",
		AgreeToTerms:       meta["agreeToTerms"] == "true",
	}
}

// Complete reports whether the metadata carried the fields the webhook
// requires before it will persist a registrant.
func (p PendingRegistration) Complete() bool {
	return p.FirstName != "" && p.Email != "" && p.RegistrationType != ""
}

// truncateMeta cuts on rune boundaries: a byte slice could split a
// multi-byte character and hand the processor invalid UTF-8.
func truncateMeta(s string) string {
	if utf8.RuneCountInString(s) <= metadataValueLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:metadataValueLimit])
}

func boolMeta(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
