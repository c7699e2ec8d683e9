package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/triska-dev/person-registry/internal/auth"
)

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// handleLogin authenticates an account and returns a JWT access token.
// Failed lookups and bad passwords produce the same 401 so usernames
// cannot be enumerated.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	account, err := s.accountRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		s.logger.Error("account lookup failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	if err := auth.Authenticate(account, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrAccountInactive):
			writeUnauthorized(w, "invalid credentials")
		default:
			s.logger.Error("password verification failed", "error", err)
			writeInternalError(w, "login failed")
		}
		return
	}

	ttl := s.secCfg.JWT.AccessTokenTTL
	if ttl == 0 {
		ttl = 15 //nolint:mnd // default 15-minute access token TTL
	}

	token, err := auth.GenerateAccessToken(account, s.secCfg.JWT.Secret, ttl)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.logger.Info("login succeeded", "account_id", account.ID, "username", account.Username, "role", account.Role)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl * 60, // seconds
	})
}
