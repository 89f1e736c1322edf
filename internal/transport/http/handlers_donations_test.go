package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharebite/internal/audit"
	donationservice "sharebite/internal/donation/service"
	donationstore "sharebite/internal/donation/store"
	"sharebite/internal/events"
	jwttoken "sharebite/internal/jwt_token"
	"sharebite/internal/platform/logger"
	id "sharebite/pkg/domain"
	"sharebite/pkg/testutil"
)

// donationFixture wires the real donation service over the in-memory store,
// exercising the full decode/validate/respond path end to end.
type donationFixture struct {
	store     donationstore.Store
	handler   http.Handler
	validator *jwttoken.Validator
}

func newDonationFixture(t *testing.T) *donationFixture {
	t.Helper()
	log := logger.New()
	f := &donationFixture{
		store:     donationstore.NewInMemoryStore(),
		validator: jwttoken.New(testSigningKey),
	}
	service := donationservice.New(f.store, events.NewInMemoryBroker(nil),
		audit.NewPublisher(audit.NewInMemoryStore(), log), nil, log)
	f.handler = NewRouter(Deps{
		Logger:    log,
		Validator: f.validator,
		Donations: service,
	})
	return f
}

func (f *donationFixture) token(t *testing.T, userID id.UserID) string {
	t.Helper()
	token, err := f.validator.Issue(userID, "user", time.Hour)
	require.NoError(t, err)
	return token
}

func donationInput() map[string]any {
	now := time.Now()
	return map[string]any{
		"category":    "food",
		"description": "surplus rice",
		"quantity":    10,
		"unit":        "kg",
		"expiryDate":  now.Add(48 * time.Hour).Format(time.RFC3339),
		"pickupWindow": map[string]string{
			"start": now.Add(time.Hour).Format(time.RFC3339),
			"end":   now.Add(8 * time.Hour).Format(time.RFC3339),
		},
		"location": map[string]any{
			"address": "12 Market Rd",
			"city":    "Springfield",
		},
	}
}

func (f *donationFixture) createDonation(t *testing.T, donor id.UserID) map[string]any {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/donations", donationInput())
	testutil.WithBearer(req, f.token(t, donor))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	testutil.DecodeJSON(t, w, &created)
	return created
}

func TestCreateDonationEndToEnd(t *testing.T) {
	f := newDonationFixture(t)
	donor := id.NewUserID()

	created := f.createDonation(t, donor)
	assert.Equal(t, "available", created["status"])
	assert.EqualValues(t, 500, created["estimatedValue"])
	assert.Equal(t, donor.String(), created["donor"])
}

func TestCreateDonationValidation(t *testing.T) {
	f := newDonationFixture(t)

	input := donationInput()
	input["category"] = "gadgets"
	req := testutil.NewJSONRequest(t, http.MethodPost, "/donations", input)
	testutil.WithBearer(req, f.token(t, id.NewUserID()))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDonationsIsPublic(t *testing.T) {
	f := newDonationFixture(t)
	f.createDonation(t, id.NewUserID())

	// No Authorization header on the read side.
	req := httptest.NewRequest(http.MethodGet, "/donations?city=Springfield", http.NoBody)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Donations []map[string]any `json:"donations"`
	}
	testutil.DecodeJSON(t, w, &res)
	require.Len(t, res.Donations, 1)
	// The verification code never serializes, claimed or not.
	_, leaked := res.Donations[0]["otp"]
	assert.False(t, leaked)
}

func TestListDonationsRejectsBadStatusFilter(t *testing.T) {
	f := newDonationFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/donations?status=hidden", http.NoBody)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDonationIgnoresLifecycleFields(t *testing.T) {
	f := newDonationFixture(t)
	donor := id.NewUserID()
	created := f.createDonation(t, donor)
	donationID := created["id"].(string)

	// Status and claimant in the patch body have no field to land in.
	patch := map[string]any{
		"quantity":  4,
		"status":    "collected",
		"claimedBy": id.NewUserID().String(),
	}
	req := testutil.NewJSONRequest(t, http.MethodPatch, "/donations/"+donationID, patch)
	testutil.WithBearer(req, f.token(t, donor))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any
	testutil.DecodeJSON(t, w, &updated)
	assert.Equal(t, "available", updated["status"])
	assert.EqualValues(t, 200, updated["estimatedValue"])
	_, claimed := updated["claimedBy"]
	assert.False(t, claimed)
}

func TestCancelDonationRequiresOwner(t *testing.T) {
	f := newDonationFixture(t)
	donor := id.NewUserID()
	created := f.createDonation(t, donor)
	donationID := created["id"].(string)

	req := httptest.NewRequest(http.MethodPost, "/donations/"+donationID+"/cancel", http.NoBody)
	testutil.WithBearer(req, f.token(t, id.NewUserID()))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/donations/"+donationID+"/cancel", http.NoBody)
	testutil.WithBearer(req, f.token(t, donor))
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetUnknownDonationIs404(t *testing.T) {
	f := newDonationFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/donations/"+id.NewDonationID().String(), http.NoBody)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
