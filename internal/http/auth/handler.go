package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/user"
)

type Handler struct {
	users  *user.Service
	tokens *auth.Tokens
}

func NewHandler(users *user.Service, tokens *auth.Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// PublicRoutes mounts the endpoints that hand out tokens.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/google", h.google)
	r.Post("/google-login", h.google)
}

// Routes mounts the endpoints that require a valid token.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/validate", h.validate)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !render.Decode(w, r, &req) {
		return
	}

	_, err := h.users.Register(r.Context(), user.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})

	switch {
	case err == nil:
		render.Message(w, http.StatusCreated, "User registered successfully")
	case errors.Is(err, user.ErrMissingFields):
		render.Message(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, user.ErrEmailTaken):
		render.Message(w, http.StatusBadRequest, "User already exists")
	default:
		render.InternalError(w, r, err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !render.Decode(w, r, &req) {
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			render.Message(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	h.respondWithToken(w, r, u)
}

type googleRequest struct {
	Token string `json:"token"`
}

func (h *Handler) google(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if req.Token == "" {
		render.Message(w, http.StatusBadRequest, "Missing Google access token")
		return
	}

	u, err := h.users.LoginWithGoogle(r.Context(), req.Token)

	switch {
	case err == nil:
		h.respondWithToken(w, r, u)
	case errors.Is(err, user.ErrInvalidGoogleToken):
		render.Message(w, http.StatusUnauthorized, "Invalid Google token")
	case errors.Is(err, user.ErrNoGoogleEmail):
		render.Message(w, http.StatusBadRequest, "Unable to retrieve Google user email")
	default:
		render.InternalErrorMessage(w, r, err, "Failed to sign in with Google")
	}
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, u *user.User) {
	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, tokenResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	render.JSON(w, http.StatusOK, validateResponse{User: claims})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	token, err := h.tokens.Issue(claims.UserID, claims.Email)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, refreshResponse{Token: token})
}

// logout has nothing to revoke: tokens are stateless and simply expire.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	render.Message(w, http.StatusOK, "Logged out")
}
