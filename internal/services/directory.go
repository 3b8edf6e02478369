package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

const (
	universitiesEndpoint      = "/universities"
	cohortsEndpoint           = "/cohort"
	universityCohortsEndpoint = "/cohorts/university/"
	universitiesEnvelopeKey   = "universities"
	cohortsEnvelopeKey        = "cohorts"
)

// DirectoryService reads the university and cohort reference lists.
type DirectoryService struct {
	base
	api Backend
}

func NewDirectoryService(api Backend, opts ...Option) *DirectoryService {
	return &DirectoryService{base: newBase(opts), api: api}
}

// Catalog is everything the checkout page needs to render its selects.
type Catalog struct {
	Universities []models.University `json:"universities"`
	Cohorts      []models.Cohort     `json:"cohorts"`
}

func (s *DirectoryService) ListUniversities(ctx context.Context) ([]models.University, error) {
	list, err := fetchList[models.University](ctx, s, universitiesEndpoint, universitiesEnvelopeKey)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *DirectoryService) ListCohorts(ctx context.Context) ([]models.Cohort, error) {
	list, err := fetchList[models.Cohort](ctx, s, cohortsEndpoint, cohortsEnvelopeKey)
	if err != nil {
		return nil, err
	}
	return normalizeCohorts(list), nil
}

// CohortsForUniversity prefers the dedicated endpoint and falls back to
// filtering the full cohort list when it is missing or fails.
func (s *DirectoryService) CohortsForUniversity(ctx context.Context, universityID string) ([]models.Cohort, error) {
	endpoint := universityCohortsEndpoint + url.PathEscape(strings.TrimSpace(universityID))
	var raw json.RawMessage
	err := s.api.Get(ctx, endpoint, &raw)
	if err == nil {
		list, shapeErr := unwrapList[models.Cohort](raw, cohortsEnvelopeKey)
		if shapeErr == nil {
			return normalizeCohorts(list), nil
		}
		err = &apiclient.DataShapeError{Endpoint: endpoint, Detail: "unrecognised list envelope", Err: shapeErr}
	}
	s.logger.InfoContext(ctx, "university cohorts endpoint unavailable, filtering all cohorts", "university_id", universityID, "error", err)

	all, err := s.ListCohorts(ctx)
	if err != nil {
		return nil, err
	}
	return filterByUniversity(all, universityID), nil
}

// FindUniversity returns the university with the given id or ErrNotFound.
func (s *DirectoryService) FindUniversity(ctx context.Context, id string) (*models.University, error) {
	endpoint := universitiesEndpoint + "/" + url.PathEscape(strings.TrimSpace(id))
	if u, err := fetchOne[models.University](ctx, s, endpoint, "university"); err == nil && SameID(u.ID.String(), id) {
		return u, nil
	}

	list, err := s.ListUniversities(ctx)
	if err != nil {
		return nil, err
	}
	if u, ok := LookupUniversity(list, id); ok {
		return u, nil
	}
	return nil, fmt.Errorf("university %q: %w", id, ErrNotFound)
}

// FindCohort returns the cohort with the given id or ErrNotFound.
func (s *DirectoryService) FindCohort(ctx context.Context, id string) (*models.Cohort, error) {
	endpoint := cohortsEndpoint + "/" + url.PathEscape(strings.TrimSpace(id))
	if c, err := fetchOne[models.Cohort](ctx, s, endpoint, "cohort"); err == nil && SameID(strconv.Itoa(c.ID), id) {
		normalized := normalizeCohort(*c)
		return &normalized, nil
	}

	list, err := s.ListCohorts(ctx)
	if err != nil {
		return nil, err
	}
	if c, ok := LookupCohort(list, id); ok {
		return c, nil
	}
	return nil, fmt.Errorf("cohort %q: %w", id, ErrNotFound)
}

// LoadCatalog fetches universities and cohorts concurrently.
func (s *DirectoryService) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var catalog Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.ListUniversities(gctx)
		if err != nil {
			return fmt.Errorf("list universities: %w", err)
		}
		catalog.Universities = list
		return nil
	})
	g.Go(func() error {
		list, err := s.ListCohorts(gctx)
		if err != nil {
			return fmt.Errorf("list cohorts: %w", err)
		}
		catalog.Cohorts = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// fetchList downloads a list and tolerates every envelope the backend has
// used. A shape it does not recognise yields an empty list and a warning.
func fetchList[T any](ctx context.Context, s *DirectoryService, endpoint, key string) ([]T, error) {
	var raw json.RawMessage
	err := s.api.Get(ctx, endpoint, &raw)
	var dse *apiclient.DataShapeError
	if errors.As(err, &dse) {
		s.logger.WarnContext(ctx, "unexpected directory response", "endpoint", endpoint, "error", err)
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	list, err := unwrapList[T](raw, key)
	if err != nil {
		s.logger.WarnContext(ctx, "unexpected directory response", "endpoint", endpoint, "error", err)
		return []T{}, nil
	}
	return list, nil
}

func fetchOne[T any](ctx context.Context, s *DirectoryService, endpoint, key string) (*T, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, endpoint, &raw); err != nil {
		s.logger.DebugContext(ctx, "direct lookup failed, searching list", "endpoint", endpoint, "error", err)
		return nil, err
	}
	return unwrapObject[T](raw, key)
}

// unwrapList accepts a bare array, {"data": [...]} or {<key>: [...]}.
func unwrapList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty body")
	}
	switch raw[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		for _, k := range []string{"data", key} {
			inner := bytes.TrimSpace(envelope[k])
			if len(inner) > 0 && inner[0] == '[' {
				return unwrapList[T](inner, key)
			}
		}
		return nil, fmt.Errorf("no %q or %q array in envelope", "data", key)
	default:
		return nil, fmt.Errorf("expected array or object, got %q", raw[:1])
	}
}

// unwrapObject accepts a bare object, {"data": {...}} or {<key>: {...}}.
func unwrapObject[T any](raw json.RawMessage, key string) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New("expected object")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	for _, k := range []string{"data", key} {
		inner := bytes.TrimSpace(envelope[k])
		if len(inner) > 0 && inner[0] == '{' {
			raw = inner
			break
		}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func normalizeCohort(c models.Cohort) models.Cohort {
	if c.Name == "" {
		c.Name = c.Title
	}
	if c.Currency == "" {
		c.Currency = models.DefaultCurrency
	}
	if c.Status == "" {
		c.Status = models.CohortActive
	}
	return c
}

func normalizeCohorts(list []models.Cohort) []models.Cohort {
	out := make([]models.Cohort, len(list))
	for i, c := range list {
		out[i] = normalizeCohort(c)
	}
	return out
}

// filterByUniversity keeps the cohorts of one university. When no cohort
// carries a university id at all the list cannot be filtered and is returned whole.
func filterByUniversity(cohorts []models.Cohort, universityID string) []models.Cohort {
	tagged := false
	out := []models.Cohort{}
	for _, c := range cohorts {
		if c.UniversityID == "" {
			continue
		}
		tagged = true
		if SameID(c.UniversityID.String(), universityID) {
			out = append(out, c)
		}
	}
	if !tagged {
		return cohorts
	}
	return out
}

// SameID reports whether two identifiers name the same record, either
// literally or after numeric coercion ("3", "03" and " 3" all equal 3).
func SameID(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return x == y
}

// LookupCohort finds a cohort by an id given as text or as a number.
func LookupCohort[K ~string | ~int](cohorts []models.Cohort, id K) (*models.Cohort, bool) {
	key := fmt.Sprint(id)
	for i := range cohorts {
		if SameID(strconv.Itoa(cohorts[i].ID), key) {
			c := cohorts[i]
			return &c, true
		}
	}
	return nil, false
}

// LookupUniversity finds a university by an id given as text or as a number.
func LookupUniversity[K ~string | ~int](universities []models.University, id K) (*models.University, bool) {
	key := fmt.Sprint(id)
	for i := range universities {
		if SameID(universities[i].ID.String(), key) {
			u := universities[i]
			return &u, true
		}
	}
	return nil, false
}
