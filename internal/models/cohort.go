package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type CohortStatus string

const (
	CohortActive    CohortStatus = "active"
	CohortInactive  CohortStatus = "inactive"
	CohortFull      CohortStatus = "full"
	CohortCompleted CohortStatus = "completed"
)

// DefaultCurrency applies when the backend omits a cohort currency.
const DefaultCurrency = "GHS"

// Cohort is a purchasable exam-prep offering. CurrentPrice is expected to be
// at most OriginalPrice but nothing here enforces it.
type Cohort struct {
	ID            int          `json:"id" bson:"id"`
	Title         string       `json:"title" bson:"title"`
	Name          string       `json:"name,omitempty" bson:"name,omitempty"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	UniversityID  FlexID       `json:"university_id,omitempty" bson:"university_id,omitempty"`
	CurrentPrice  float64      `json:"current_price" bson:"current_price"`
	OriginalPrice float64      `json:"original_price" bson:"original_price"`
	Currency      string       `json:"currency,omitempty" bson:"currency,omitempty"`
	Status        CohortStatus `json:"status,omitempty" bson:"status,omitempty"`
	LoginAllowed  bool         `json:"login_allowed" bson:"login_allowed"`
	CreatedAt     string       `json:"created_at,omitempty" bson:"created_at,omitempty"`
	ExpiresAt     string       `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or number. An id that is not
// an integer decodes as 0 so one odd record cannot fail a whole list.
func (c *Cohort) UnmarshalJSON(b []byte) error {
	type plain Cohort
	aux := struct {
		*plain
		ID FlexID `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = 0
	if n, err := strconv.Atoi(strings.TrimSpace(aux.ID.String())); err == nil {
		c.ID = n
	}
	return nil
}

// DisplayName is the name shown to users, falling back to the title.
func (c Cohort) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Title
}
