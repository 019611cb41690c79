package profile

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/user"
)

type Handler struct {
	users *user.Service
}

func NewHandler(users *user.Service) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
}

type profileResponse struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Company      string     `json:"company"`
	Bio          string     `json:"bio"`
	ProfilePhoto string     `json:"profile_photo"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type updateResponse struct {
	User profileResponse `json:"user"`
}

func toResponse(a *user.Account) profileResponse {
	return profileResponse{
		ID:           a.User.ID,
		FirstName:    a.User.FirstName,
		LastName:     a.User.LastName,
		Email:        a.User.Email,
		Phone:        a.Profile.Phone,
		Company:      a.Profile.Company,
		Bio:          a.Profile.Bio,
		ProfilePhoto: a.Profile.PhotoURL,
		UpdatedAt:    a.Profile.UpdatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	account, err := h.users.Account(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			render.Message(w, http.StatusNotFound, "User not found")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, toResponse(account))
}

type updateRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Bio          string `json:"bio"`
	ProfilePhoto string `json:"profilePhoto"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	account, err := h.users.UpdateProfile(r.Context(), auth.UserID(r.Context()), user.ProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
		Bio:       req.Bio,
		PhotoURL:  req.ProfilePhoto,
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			render.Message(w, http.StatusNotFound, "User not found")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, updateResponse{User: toResponse(account)})
}
