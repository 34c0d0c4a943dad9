package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/api/presenter"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/service"
	"github.com/darmiel/checkin/internal/session"
)

// IssueResponse is the body returned by the issuance route.
type IssueResponse struct {
	Token string `json:"token"`
}

// RegisterResponse is the JSON variant of the check-in result page.
type RegisterResponse struct {
	core.Result
	Message string `json:"message"`
}

const messagePresenterUnknown = "Error: Your presenter session was not recognized. Please sign in again."

// handleIssue creates a new token for the caller's session.
func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	sess, ok := session.FromContext(ctx)
	if !ok {
		logger.Error().Msg("no session in request context")
		presenter.Error(w, r, "session unavailable", http.StatusInternalServerError)
		return
	}

	tok, err := s.issuer.IssueToken(ctx, sess)
	if err != nil {
		logger.Error().Err(err).Msg("token issuance failed")
		presenter.Err(w, r, err, "token issuance failed, please try again")
		return
	}

	presenter.JSON(w, r, IssueResponse{Token: tok.Value}, http.StatusOK)
}

// handleRegister validates a scanned token and renders the outcome.
// Both failure outcomes are terminal and share the same status.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	sess, ok := session.FromContext(ctx)
	if !ok {
		logger.Error().Msg("no session in request context")
		s.renderResult(w, r, core.Result{Outcome: core.OutcomeInvalid}, http.StatusInternalServerError)
		return
	}

	// resolve the presenter first: an unidentified request must not consume the pending token
	identity, err := s.identities.Resolve(r)
	if err != nil {
		logger.Warn().Err(err).Str("resolver", s.identities.Name()).Msg("presenter identity resolution failed")
		if wantsJSON(r) {
			presenter.Error(w, r, messagePresenterUnknown, http.StatusUnauthorized)
			return
		}
		presenter.HTML(w, r, presenter.Page{Message: messagePresenterUnknown}, http.StatusUnauthorized)
		return
	}

	result := s.validator.ValidateToken(ctx, service.ValidateRequest{
		Session:  sess,
		Token:    r.URL.Query().Get("token"),
		Identity: identity,
	})
	s.renderResult(w, r, result, http.StatusOK)
}

func (s *Server) renderResult(w http.ResponseWriter, r *http.Request, result core.Result, status int) {
	msg := result.Message(s.location)
	if wantsJSON(r) {
		presenter.JSON(w, r, RegisterResponse{Result: result, Message: msg}, status)
		return
	}
	presenter.HTML(w, r, presenter.Page{Success: result.Accepted(), Message: msg}, status)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
