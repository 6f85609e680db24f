// file: services/session_service.go
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "session"

// SessionTTL is the single session lifetime used everywhere: token expiry and
// cookie max-age.
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned for every verification failure. Bad signature,
// expiry and malformed tokens are deliberately indistinguishable to callers.
var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	AccountID string   `json:"account_id"`
	Email     string   `json:"email"`
	Events    []string `json:"events"`
	jwt.RegisteredClaims
}

// EventSource yields the current joined-events list for an account. Refresh
// reads through it so a re-issued token always reflects database state.
type EventSource interface {
	AccountEvents(ctx context.Context, accountID string) ([]string, error)
}

type SessionService struct {
	secret        []byte
	ttl           time.Duration
	events        EventSource
	secureCookies bool
}

func NewSessionService(secret string, events EventSource, secureCookies bool) *SessionService {
	return &SessionService{
		secret:        []byte(secret),
		ttl:           SessionTTL,
		events:        events,
		secureCookies: secureCookies,
	}
}

func (s *SessionService) Issue(accountID, email string, events []string) (string, error) {
	claims := SessionClaims{
		AccountID: accountID,
		Email:     email,
		Events:    events,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Refresh re-reads the account's joined events and issues a fresh token,
// replacing the previous one wholesale. Called after every operation that
// changes team or event membership so the client never needs to re-login.
func (s *SessionService) Refresh(ctx context.Context, accountID, email string) (string, error) {
	events, err := s.events.AccountEvents(ctx, accountID)
	if err != nil {
		return "", err
	}
	return s.Issue(accountID, email, events)
}

func (s *SessionService) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(s.ttl.Seconds()), "/", "", s.secureCookies, true)
}

func (s *SessionService) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.secureCookies, true)
}
