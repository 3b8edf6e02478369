package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

const universitiesArray = `[{"id":"1","name":"University of Ghana"},{"id":2,"name":"KNUST","code":"KNUST"}]`

func TestListUniversitiesEnvelopes(t *testing.T) {
	want := []models.University{
		{ID: "1", Name: "University of Ghana"},
		{ID: "2", Name: "KNUST", Code: "KNUST"},
	}
	bodies := map[string]string{
		"bare array":     universitiesArray,
		"data envelope":  `{"status":"success","data":` + universitiesArray + `}`,
		"named envelope": `{"universities":` + universitiesArray + `}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			backend, client := newFakeBackend(t)
			backend.respond(http.MethodGet, "/universities", http.StatusOK, body)

			got, err := NewDirectoryService(client).ListUniversities(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestListUniversitiesUnknownShapeIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"object without list": `{"status":"success","data":{"count":2}}`,
		"scalar":              `42`,
		"html":                `<html></html>`,
		"empty":               ``,
	} {
		t.Run(name, func(t *testing.T) {
			backend, client := newFakeBackend(t)
			backend.respond(http.MethodGet, "/universities", http.StatusOK, body)

			got, err := NewDirectoryService(client).ListUniversities(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestListUniversitiesPropagatesHTTPErrors(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodGet, "/universities", http.StatusInternalServerError, `{"message":"db down"}`)

	_, err := NewDirectoryService(client).ListUniversities(context.Background())
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))
}

func TestListCohortsNormalizes(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodGet, "/cohort", http.StatusOK,
		`{"cohorts":[{"id":7,"title":"Batch A","current_price":1000,"university_id":2},{"id":8,"title":"Batch B","name":"Named","currency":"USD","status":"full"}]}`)

	got, err := NewDirectoryService(client).ListCohorts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Batch A", got[0].Name)
	assert.Equal(t, models.DefaultCurrency, got[0].Currency)
	assert.Equal(t, models.CohortActive, got[0].Status)
	assert.Equal(t, models.FlexID("2"), got[0].UniversityID)

	assert.Equal(t, "Named", got[1].Name)
	assert.Equal(t, "USD", got[1].Currency)
	assert.Equal(t, models.CohortFull, got[1].Status)
}

func TestListCohortsMixedIDTypes(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodGet, "/cohort", http.StatusOK,
		`[{"id":"3","title":"Batch C","current_price":900},{"id":4,"title":"Batch D","current_price":1200}]`)

	svc := NewDirectoryService(client)
	got, err := svc.ListCohorts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 4, got[1].ID)

	c, err := svc.FindCohort(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Batch C", c.Name)
}

func TestCohortsForUniversity(t *testing.T) {
	all := `[{"id":1,"title":"A","university_id":"2"},{"id":2,"title":"B","university_id":3},{"id":3,"title":"C","university_id":2}]`

	t.Run("dedicated endpoint", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohorts/university/2", http.StatusOK, `{"data":[{"id":1,"title":"A"}]}`)

		got, err := NewDirectoryService(client).CohortsForUniversity(context.Background(), "2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Name)
		assert.Zero(t, backend.count(http.MethodGet, "/cohort"))
	})

	t.Run("404 falls back to filtering", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, all)

		got, err := NewDirectoryService(client).CohortsForUniversity(context.Background(), "02")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].ID)
		assert.Equal(t, 3, got[1].ID)
		assert.Equal(t, 1, backend.count(http.MethodGet, "/cohorts/university/02"))
	})

	t.Run("server error falls back too", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohorts/university/3", http.StatusBadGateway, ``)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, all)

		got, err := NewDirectoryService(client).CohortsForUniversity(context.Background(), "3")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].ID)
	})

	t.Run("untagged cohorts are returned whole", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, `[{"id":1,"title":"A"},{"id":2,"title":"B"}]`)

		got, err := NewDirectoryService(client).CohortsForUniversity(context.Background(), "9")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no match is empty", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, all)

		got, err := NewDirectoryService(client).CohortsForUniversity(context.Background(), "9")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFindCohort(t *testing.T) {
	t.Run("direct lookup", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort/7", http.StatusOK, `{"data":{"id":7,"title":"Batch A","current_price":1000}}`)

		got, err := NewDirectoryService(client).FindCohort(context.Background(), "7")
		require.NoError(t, err)
		assert.Equal(t, 7, got.ID)
		assert.Equal(t, "Batch A", got.Name)
		assert.Zero(t, backend.count(http.MethodGet, "/cohort"))
	})

	t.Run("falls back to the list with numeric coercion", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, `[{"id":3,"title":"C"},{"id":7,"title":"A"}]`)

		svc := NewDirectoryService(client)
		byText, err := svc.FindCohort(context.Background(), "3")
		require.NoError(t, err)
		padded, err := svc.FindCohort(context.Background(), " 03")
		require.NoError(t, err)
		assert.Equal(t, byText, padded)
		assert.Equal(t, 3, byText.ID)
	})

	t.Run("not found", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.respond(http.MethodGet, "/cohort", http.StatusOK, `[]`)

		_, err := NewDirectoryService(client).FindCohort(context.Background(), "99")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindUniversity(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodGet, "/universities", http.StatusOK, universitiesArray)
	svc := NewDirectoryService(client)

	got, err := svc.FindUniversity(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "KNUST", got.Name)

	_, err = svc.FindUniversity(context.Background(), "5")
	assert.ErrorIs(t, err, ErrNotFound)

	backend.respond(http.MethodGet, "/universities/1", http.StatusOK, `{"id":1,"name":"UG direct"}`)
	got, err = svc.FindUniversity(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "UG direct", got.Name)
}

func TestLoadCatalog(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodGet, "/universities", http.StatusOK, universitiesArray)
	backend.respond(http.MethodGet, "/cohort", http.StatusOK, `{"data":[{"id":7,"title":"A"}]}`)

	catalog, err := NewDirectoryService(client).LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Universities, 2)
	assert.Len(t, catalog.Cohorts, 1)

	backend.respond(http.MethodGet, "/cohort", http.StatusServiceUnavailable, ``)
	_, err = NewDirectoryService(client).LoadCatalog(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, apiclient.StatusOf(err))
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID("3", "3"))
	assert.True(t, SameID("3", "03"))
	assert.True(t, SameID(" 3", "3.0"))
	assert.True(t, SameID("abc", "abc"))
	assert.False(t, SameID("3", "4"))
	assert.False(t, SameID("", ""))
	assert.False(t, SameID("abc", "3"))
}

func TestLookupCohortByTextOrNumber(t *testing.T) {
	cohorts := []models.Cohort{{ID: 1}, {ID: 3, Title: "three"}}

	byText, ok := LookupCohort(cohorts, "3")
	require.True(t, ok)
	byNumber, ok := LookupCohort(cohorts, 3)
	require.True(t, ok)
	assert.Equal(t, byText, byNumber)

	_, ok = LookupCohort(cohorts, 9)
	assert.False(t, ok)

	u, ok := LookupUniversity([]models.University{{ID: "12"}}, 12)
	require.True(t, ok)
	assert.Equal(t, models.FlexID("12"), u.ID)
}
