package routehandlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/coreybb/quill/auth"
	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

type AuthHandler struct {
	Repo          datastore.UserRepository
	Tokens        *auth.Manager
	SecureCookies bool
}

func NewAuthHandler(repo datastore.UserRepository, tokens *auth.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{Repo: repo, Tokens: tokens, SecureCookies: secureCookies}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	req.Username = strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(req.Username) {
		return webutil.ErrBadRequest("Username must be 3-32 characters of letters, digits, '.', '_' or '-'")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return webutil.ErrBadRequestWrap("Invalid email address", err)
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return webutil.ErrBadRequestWrap(err.Error(), err)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := h.Repo.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, datastore.ErrConflict) {
			return webutil.ErrConflictWrap("Username is already taken", err)
		}
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	log.Printf("INFO (AuthHandler): Registered user '%s' (%s)", user.Username, user.ID)

	return h.startSession(w, http.StatusCreated, &user)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	defer r.Body.Close()

	user, err := h.Repo.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if datastore.IsNotFound(err) {
			return webutil.ErrUnauthorizedWrap("Invalid username or password", auth.ErrInvalidCredentials)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return webutil.ErrUnauthorizedWrap("Invalid username or password", auth.ErrInvalidCredentials)
	}
	return h.startSession(w, http.StatusOK, user)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		h.Tokens.Revoke(claims)
	}
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Authentication required")
	}
	user, err := h.Repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if datastore.IsNotFound(err) {
			return webutil.ErrUnauthorizedWrap("Authentication required", err)
		}
		return fmt.Errorf("failed to load user %s: %w", claims.UserID, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, user *models.User) error {
	token, expiresAt, err := h.Tokens.Issue(user)
	if err != nil {
		return fmt.Errorf("failed to issue token for user %s: %w", user.ID, err)
	}
	auth.SetSessionCookie(w, token, expiresAt, h.SecureCookies)
	webutil.RespondWithJSON(w, status, models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *user})
	return nil
}
