package profile_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/profile"
	"github.com/MrJamesThe3rd/spendwise/internal/user"
	"github.com/MrJamesThe3rd/spendwise/internal/user/memory"
)

func TestHandler_Profile(t *testing.T) {
	users := user.NewService(memory.New(), nil)

	u, err := users.Register(context.Background(), user.RegisterParams{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/profile", profile.NewHandler(users).Routes)

	serve := func(method, body string, userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/profile", strings.NewReader(body))
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: userID}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		return rec
	}

	rec := serve(http.MethodGet, "", u.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": 1, "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
		"phone": "", "company": "", "bio": "", "profile_photo": ""
	}`, rec.Body.String())

	rec = serve(http.MethodPut, `{"lastName":"King","phone":"555","profilePhoto":"https://img/a.png"}`, u.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		User struct {
			FirstName    string `json:"firstName"`
			LastName     string `json:"lastName"`
			Phone        string `json:"phone"`
			ProfilePhoto string `json:"profile_photo"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Ada", updated.User.FirstName)
	assert.Equal(t, "King", updated.User.LastName)
	assert.Equal(t, "555", updated.User.Phone)
	assert.Equal(t, "https://img/a.png", updated.User.ProfilePhoto)

	rec = serve(http.MethodGet, "", 99)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}
