package transaction_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	txhttp "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	matchingmem "github.com/MrJamesThe3rd/spendwise/internal/matching/memory"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction/memory"
)

type txResponse struct {
	ID         int64   `json:"id"`
	Type       string  `json:"type"`
	Label      string  `json:"label"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	OccurredAt string  `json:"occurred_at"`
}

type server struct {
	t      *testing.T
	router http.Handler
	hints  *matching.Service
}

func newServer(t *testing.T) *server {
	t.Helper()

	hints := matching.NewService(matchingmem.New())
	svc := transaction.NewService(memory.New(), classifier.New(), hints)

	r := chi.NewRouter()
	r.Route("/transactions", txhttp.NewHandler(svc).Routes)

	return &server{t: t, router: r, hints: hints}
}

func (s *server) do(method, path, body string, userID int64) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: userID}))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestHandler_Parse(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/transactions/parse", `{"text":"spent $12.50 on lunch"}`, 1)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[txResponse](t, rec)
	assert.Equal(t, "expense", got.Type)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, 12.5, got.Amount)
	assert.Equal(t, "spent $12.50 on lunch", got.Label)
	assert.NotEmpty(t, got.OccurredAt)

	rec = s.do(http.MethodPost, "/transactions/parse", `{"text":"no numbers here"}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Unable to parse input"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/transactions", "", 1)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_ParseUsesLearnedHint(t *testing.T) {
	s := newServer(t)

	require.NoError(t, s.hints.Learn(t.Context(), 1, "gym", "Shopping"))

	rec := s.do(http.MethodPost, "/transactions/parse", `{"text":"gym membership 30"}`, 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shopping", decode[txResponse](t, rec).Category)

	rec = s.do(http.MethodPost, "/transactions/parse", `{"text":"gym membership 30"}`, 2)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "General", decode[txResponse](t, rec).Category)
}

func TestHandler_Quick(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/transactions/quick", `{"text":"+200 freelance"}`, 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decode[txResponse](t, rec)
	assert.Positive(t, got.ID)
	assert.Equal(t, "income", got.Type)
	assert.Equal(t, "Income", got.Category)
	assert.Equal(t, 200.0, got.Amount)
}

func TestHandler_CRUD(t *testing.T) {
	s := newServer(t)

	type testCase struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}

	invalid := []testCase{
		{name: "MissingLabel", body: `{"amount":5}`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid transaction payload"}`},
		{name: "ZeroAmount", body: `{"label":"x","amount":0}`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid transaction payload"}`},
		{name: "SubCentAmount", body: `{"label":"x","amount":0.004}`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid transaction payload"}`},
		{name: "AmountBeyondColumn", body: `{"label":"x","amount":10000000000}`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid transaction payload"}`},
		{name: "BadType", body: `{"label":"x","amount":5,"type":"transfer"}`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid type"}`},
		{name: "Malformed", body: `{`, wantStatus: http.StatusBadRequest, wantBody: `{"message":"Invalid request body"}`},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/transactions", tt.body, 1)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	rec := s.do(http.MethodPost, "/transactions", `{"label":"salary","amount":"2000","type":"income","category":"Income","date":"2024-01-31"}`, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	salary := decode[txResponse](t, rec)
	assert.Equal(t, "2024-01-31T00:00:00Z", salary.OccurredAt)

	rec = s.do(http.MethodPost, "/transactions", `{"label":"bus ticket","amount":2.5,"date":"2024-02-03"}`, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	bus := decode[txResponse](t, rec)
	assert.Equal(t, "expense", bus.Type)
	assert.Equal(t, "General", bus.Category)

	t.Run("ListFilters", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/transactions", "", 1)
		list := decode[[]txResponse](t, rec)
		require.Len(t, list, 2)
		assert.Equal(t, "bus ticket", list[0].Label)

		rec = s.do(http.MethodGet, "/transactions?type=income", "", 1)
		assert.Len(t, decode[[]txResponse](t, rec), 1)

		rec = s.do(http.MethodGet, "/transactions?to=2024-01-31", "", 1)
		list = decode[[]txResponse](t, rec)
		require.Len(t, list, 1)
		assert.Equal(t, "salary", list[0].Label)

		rec = s.do(http.MethodGet, "/transactions?q=BUS", "", 1)
		assert.Len(t, decode[[]txResponse](t, rec), 1)

		rec = s.do(http.MethodGet, "/transactions?from=soon", "", 1)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(http.MethodGet, "/transactions", "", 2)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Get", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/transactions/1", "", 1)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "salary", decode[txResponse](t, rec).Label)

		rec = s.do(http.MethodGet, "/transactions/1", "", 2)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
	})

	t.Run("Update", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/transactions/2", `{"category":"Transport","amount":3}`, 1)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[txResponse](t, rec)
		assert.Equal(t, "Transport", got.Category)
		assert.Equal(t, 3.0, got.Amount)
		assert.Equal(t, "bus ticket", got.Label)

		rec = s.do(http.MethodPut, "/transactions/2", `{}`, 1)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"No valid fields to update"}`, rec.Body.String())

		rec = s.do(http.MethodPut, "/transactions/2", `{"type":"gift"}`, 1)
		assert.JSONEq(t, `{"message":"Invalid type"}`, rec.Body.String())

		rec = s.do(http.MethodPut, "/transactions/2", `{"label":"x"}`, 2)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(http.MethodPut, "/transactions/zero", `{"label":"x"}`, 1)
		assert.JSONEq(t, `{"message":"Invalid id"}`, rec.Body.String())
	})

	t.Run("Delete", func(t *testing.T) {
		rec := s.do(http.MethodDelete, "/transactions/2", "", 2)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet, "/transactions/2", "", 1)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodDelete, "/transactions/2", "", 1)
		assert.JSONEq(t, `{"message":"Deleted"}`, rec.Body.String())

		rec = s.do(http.MethodGet, "/transactions/2", "", 1)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
