package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

// countingStore counts how often the transaction context is cleared.
type countingStore struct {
	*session.MemoryStore
	clears int
}

func (s *countingStore) Clear(ctx context.Context, sessionID string) error {
	s.clears++
	return s.MemoryStore.Clear(ctx, sessionID)
}

func newAccountService(t *testing.T) (*fakeBackend, *countingStore, *AccountService) {
	t.Helper()
	backend, client := newFakeBackend(t)
	store := &countingStore{MemoryStore: session.NewMemoryStore(0)}
	return backend, store, NewAccountService(client, session.NewCache(store), "")
}

func validAccountForm() models.AccountSetupForm {
	return models.AccountSetupForm{FirstName: " Ama ", LastName: "Mensah", WhatsApp: "0241000000", UniversityID: "2"}
}

func TestAccountSetup(t *testing.T) {
	backend, store, svc := newAccountService(t)
	storeContext(t, store.MemoryStore, "sid", "RX_stored")
	backend.respond(http.MethodPost, "/account/setup", http.StatusCreated, `{"status":"success","message":"Welcome aboard","data":{"id":9}}`)

	res, err := svc.Setup(context.Background(), "sid", validAccountForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, "RX_stored", res.Reference)
	assert.Equal(t, "Welcome aboard", res.Message)
	assert.JSONEq(t, `{"id":9}`, string(res.Data))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(backend.body(http.MethodPost, "/account/setup"), &sent))
	assert.Equal(t, map[string]any{
		"first_name":       "Ama",
		"last_name":        "Mensah",
		"university_id":    float64(2),
		"whatsapp_contact": "+233241000000",
		"reference":        "RX_stored",
	}, sent)

	assert.Equal(t, 1, store.clears)
	_, err = store.Load(context.Background(), "sid")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAccountSetupPrefersURLReference(t *testing.T) {
	backend, store, svc := newAccountService(t)
	storeContext(t, store.MemoryStore, "sid", "RX_stored")
	backend.respond(http.MethodPost, "/account/setup", http.StatusOK, `{}`)

	res, err := svc.Setup(context.Background(), "sid", validAccountForm(), url.Values{"trxref": {"RX_url"}})
	require.NoError(t, err)
	assert.Equal(t, "RX_url", res.Reference)
	assert.Equal(t, msgAccountCreated, res.Message)
}

func TestAccountSetupFailureKeepsContext(t *testing.T) {
	backend, store, svc := newAccountService(t)
	storeContext(t, store.MemoryStore, "sid", "RX_stored")
	backend.respond(http.MethodPost, "/account/setup", http.StatusUnprocessableEntity, `{"detail":"WhatsApp number already used"}`)

	_, err := svc.Setup(context.Background(), "sid", validAccountForm(), nil)
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "WhatsApp number already used", se.Message)
	assert.Zero(t, store.clears)

	tc, err := store.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "RX_stored", tc.Reference)
}

func TestAccountSetupRejectedEnvelope(t *testing.T) {
	backend, store, svc := newAccountService(t)
	backend.respond(http.MethodPost, "/account/setup", http.StatusOK, `{"status":false,"message":"Reference already used"}`)

	_, err := svc.Setup(context.Background(), "sid", validAccountForm(), nil)
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Reference already used", se.Message)
	assert.Zero(t, store.clears)
}

func TestAccountSetupValidation(t *testing.T) {
	backend, store, svc := newAccountService(t)

	_, err := svc.Setup(context.Background(), "sid", models.AccountSetupForm{FirstName: "Ama"}, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"last_name", "whatsapp", "university_id"}, ve.Fields)

	form := validAccountForm()
	form.WhatsApp = "12"
	_, err = svc.Setup(context.Background(), "sid", form, nil)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"whatsapp"}, ve.Fields)

	form = validAccountForm()
	form.UniversityID = "legon"
	_, err = svc.Setup(context.Background(), "sid", form, nil)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, msgInvalidUniversity, ve.Message)

	assert.Zero(t, backend.totalCalls())
	assert.Zero(t, store.clears)
}

func TestAccountSetupCustomPath(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.respond(http.MethodPost, "/students/register", http.StatusOK, `{"status":"success"}`)
	svc := NewAccountService(client, session.NewCache(session.NewMemoryStore(0)), "/students/register")

	_, err := svc.Setup(context.Background(), "sid", validAccountForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count(http.MethodPost, "/students/register"))
}
