package models

import (
	"time"
)

const (
	FHIRCodeSystemLOINC = "http://loinc.org"
	FHIRCodeState       = "CUSTOM-STATE"
	FHIRCodeTimer       = "CUSTOM-TIMER"
	FHIRSubject         = "Patient/example"
)

// Observation is the subset of the FHIR R4 Observation resource we serve.
type Observation struct {
	ResourceType      string          `json:"resourceType"`
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	Code              CodeableConcept `json:"code"`
	Subject           Reference       `json:"subject"`
	EffectiveDateTime string          `json:"effectiveDateTime"`
	ValueString       *string         `json:"valueString,omitempty"`
	ValueInteger      *int64          `json:"valueInteger,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding"`
}

type Coding struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

type Reference struct {
	Reference string `json:"reference"`
}

// ObservationsFromLog maps a stored row to the state and timer observations.
func ObservationsFromLog(row *SedentaryLog) []Observation {
	effective := row.CreatedAt.UTC().Format(time.RFC3339)
	id := row.ID.String()
	state := row.State
	timer := int64(row.TimerSeconds)

	return []Observation{
		{
			ResourceType: "Observation",
			ID:           id + "-state",
			Status:       "final",
			Code: CodeableConcept{Coding: []Coding{{
				System:  FHIRCodeSystemLOINC,
				Code:    FHIRCodeState,
				Display: "Sedentary State",
			}}},
			Subject:           Reference{Reference: FHIRSubject},
			EffectiveDateTime: effective,
			ValueString:       &state,
		},
		{
			ResourceType: "Observation",
			ID:           id + "-timer",
			Status:       "final",
			Code: CodeableConcept{Coding: []Coding{{
				System:  FHIRCodeSystemLOINC,
				Code:    FHIRCodeTimer,
				Display: "Inactive Duration (Seconds)",
			}}},
			Subject:           Reference{Reference: FHIRSubject},
			EffectiveDateTime: effective,
			ValueInteger:      &timer,
		},
	}
}
