package models

import "github.com/google/uuid"

// CourtSummary is the subset of court metadata shown alongside a
// reservation in list responses.
type CourtSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Sport      string    `json:"sport"`
	FacilityID uuid.UUID `json:"facility_id"`
}
