package storefront

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
)

// Session is the verified identity the backend handed out, kept across runs.
type Session struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// key is the identity key carts and orders are filed under.
func (s *Session) key() string {
	return models.NormalizeEmail(s.User.Email)
}

func newLocalID() string { return uuid.NewString() }

// Register creates the identity on the backend and signs in as it. There is
// no offline registration.
func (a *App) Register(ctx context.Context, name, email, password string) (models.UserSummary, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.backend.Register(ctx, name, email, password)
	if err != nil {
		return models.UserSummary{}, err
	}
	return a.startSession(sess)
}

// Login exchanges credentials for a session. Every identity, admin
// included, is verified by the backend.
func (a *App) Login(ctx context.Context, email, password string) (models.UserSummary, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return models.UserSummary{}, err
	}
	return a.startSession(sess)
}

func (a *App) startSession(sess *auth.Session) (models.UserSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = &Session{Token: sess.Token, User: sess.User}
	if err := a.persist(localstore.Session, a.session); err != nil {
		return sess.User, err
	}
	return sess.User, nil
}

// Logout forgets the session. Carts and orders stay filed under the identity.
func (a *App) Logout() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
	return a.cache.Delete(localstore.Session)
}

// Identity returns the signed-in user, if any.
func (a *App) Identity() (models.UserSummary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return models.UserSummary{}, false
	}
	return a.session.User, true
}

func (a *App) IsAdmin() bool {
	user, ok := a.Identity()
	return ok && user.IsAdmin()
}

// restoreSession reloads the cached session. Expired or rejected tokens are
// dropped. A backend that cannot answer keeps the cached identity.
func (a *App) restoreSession(ctx context.Context) error {
	var sess Session
	found, err := a.cache.Get(localstore.Session, &sess)
	if err != nil {
		return err
	}
	if !found || sess.Token == "" {
		return nil
	}
	if tokenExpired(sess.Token, a.now()) {
		log.Printf("🔒 cached session for %s expired", sess.User.Email)
		return a.cache.Delete(localstore.Session)
	}

	user, err := a.backend.Me(ctx, sess.Token)
	switch {
	case err == nil:
		sess.User = *user
	case errors.Is(err, auth.ErrUnauthenticated):
		return a.cache.Delete(localstore.Session)
	case client.IsUnavailable(err):
		log.Printf("⚠️ backend unavailable, keeping cached session for %s: %v", sess.User.Email, err)
	default:
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = &sess
	return nil
}

// tokenExpired reads the exp claim without verifying the signature. Only
// the backend can verify; this just avoids presenting a token known to be dead.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !now.Before(exp.Time)
}

// requireIdentityLocked returns the active session or ErrMissingIdentity.
func (a *App) requireIdentityLocked() (*Session, error) {
	if a.session == nil {
		return nil, ErrMissingIdentity
	}
	return a.session, nil
}

// currentSession returns a copy of the active session, for use once the
// lock is released.
func (a *App) currentSession() (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, err := a.requireIdentityLocked()
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

func (a *App) currentAdmin() (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, err := a.requireAdminLocked()
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// requireAdminLocked gates privileged operations before any request is sent.
func (a *App) requireAdminLocked() (*Session, error) {
	sess, err := a.requireIdentityLocked()
	if err != nil {
		return nil, err
	}
	if !sess.User.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	return sess, nil
}
