package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFlexIDDecodesStringsAndNumbers(t *testing.T) {
	var got []University
	err := json.Unmarshal([]byte(`[{"id":"3","name":"UG"},{"id":4,"name":"KNUST"},{"id":null,"name":"?"}]`), &got)
	require.NoError(t, err)

	assert.Equal(t, FlexID("3"), got[0].ID)
	assert.Equal(t, FlexID("4"), got[1].ID)
	assert.Equal(t, FlexID(""), got[2].ID)

	var bad University
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &bad))
}

func TestCohortIDDecodesStringsAndNumbers(t *testing.T) {
	var got []Cohort
	err := json.Unmarshal([]byte(`[{"id":"3","title":"A","current_price":900},{"id":4,"title":"B"},{"id":"x","title":"C"}]`), &got)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, 900.0, got[0].CurrentPrice)
	assert.Equal(t, 4, got[1].ID)
	assert.Zero(t, got[2].ID)
}

func TestCohortSnapshotStoredWithSnakeCaseKeys(t *testing.T) {
	raw, err := bson.Marshal(TransactionContext{
		Reference: "RX_1_abcdefghi",
		Cohort:    &Cohort{ID: 7, CurrentPrice: 1000, OriginalPrice: 1500, LoginAllowed: true, UniversityID: "2"},
	})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	cohort, ok := doc["cohort"].(bson.M)
	require.True(t, ok)
	for _, key := range []string{"id", "current_price", "original_price", "login_allowed", "university_id"} {
		assert.Contains(t, cohort, key)
	}
	assert.NotContains(t, cohort, "currentprice")
}

func TestEnvelopeStatus(t *testing.T) {
	var resp PaymentStatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":true,"data":{"status":"success"}}`), &resp))
	assert.Equal(t, StatusSuccess, resp.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"success"}`), &resp))
	assert.Equal(t, StatusSuccess, resp.Status)
}

func TestPaymentOutcome(t *testing.T) {
	cases := map[string]struct {
		resp *PaymentStatusResponse
		want PaymentOutcome
	}{
		"verified":          {&PaymentStatusResponse{Status: "success", Data: &PaymentStatus{Status: "success"}}, OutcomeVerified},
		"envelope not ok":   {&PaymentStatusResponse{Status: "error", Data: &PaymentStatus{Status: "success"}}, OutcomePending},
		"failed":            {&PaymentStatusResponse{Status: "success", Data: &PaymentStatus{Status: "failed"}}, OutcomeFailed},
		"abandoned":         {&PaymentStatusResponse{Status: "success", Data: &PaymentStatus{Status: "Abandoned"}}, OutcomeFailed},
		"ongoing":           {&PaymentStatusResponse{Status: "success", Data: &PaymentStatus{Status: "ongoing"}}, OutcomePending},
		"no data":           {&PaymentStatusResponse{Status: "success"}, OutcomePending},
		"nil response":      {nil, OutcomePending},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.resp.Outcome())
		})
	}
}

func TestRedirectURL(t *testing.T) {
	var resp PaymentInitResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success","data":{"url":"https://pay.example/tx/abc","access_code":"ac"}}`), &resp))
	assert.Equal(t, "https://pay.example/tx/abc", resp.RedirectURL())

	legacy := PaymentInitResponse{URL: "https://pay.example/legacy"}
	assert.Equal(t, "https://pay.example/legacy", legacy.RedirectURL())

	alt := PaymentInitResponse{PaymentURL: "https://pay.example/alt"}
	assert.Equal(t, "https://pay.example/alt", alt.RedirectURL())
	assert.Empty(t, PaymentInitResponse{}.RedirectURL())
}

func TestCohortDisplayName(t *testing.T) {
	assert.Equal(t, "Batch A", Cohort{Title: "Batch A"}.DisplayName())
	assert.Equal(t, "Named", Cohort{Title: "Batch A", Name: "Named"}.DisplayName())
}
