package models

import "time"

// FormSnapshot is the checkout form as it was when payment was initiated.
type FormSnapshot struct {
	Email        string `json:"email" bson:"email"`
	Phone        string `json:"phone" bson:"phone"`
	CohortID     string `json:"cohort_id" bson:"cohort_id"`
	UniversityID string `json:"university_id" bson:"university_id"`
}

// TransactionContext survives the round-trip to the hosted payment page so the
// account setup step can be pre-filled and correlated.
type TransactionContext struct {
	Reference string       `json:"reference" bson:"reference"`
	Form      FormSnapshot `json:"form" bson:"form"`
	Cohort    *Cohort      `json:"cohort,omitempty" bson:"cohort,omitempty"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
}

func SnapshotForm(f CheckoutForm) FormSnapshot {
	return FormSnapshot{
		Email:        f.Email,
		Phone:        f.Phone,
		CohortID:     f.CohortID,
		UniversityID: f.UniversityID,
	}
}
