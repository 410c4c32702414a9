// Package auth decides who is calling: it registers identities, exchanges
// credentials for session tokens and resolves tokens back to identities.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
)

const MinPasswordLength = 6

type Resolver struct {
	users      store.Users
	tokens     *Tokens
	adminEmail string
	cost       int
}

type Options struct {
	AdminEmail string
	BcryptCost int
}

func NewResolver(users store.Users, tokens *Tokens, opts Options) *Resolver {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Resolver{users: users, tokens: tokens, adminEmail: opts.AdminEmail, cost: cost}
}

// Session is what a successful register or login hands back to the caller.
type Session struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func (r *Resolver) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = models.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, &models.ValidationError{Field: "all", Message: "All fields are required"}
	}
	if len(password) < MinPasswordLength {
		return nil, &models.ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}

	// The unique index still has the last word on concurrent registrations.
	if _, err := r.users.UserByEmail(ctx, email); err == nil {
		return nil, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PasswordDigest: string(digest),
		Role:           models.RoleFor(email, r.adminEmail),
	}
	if err := r.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return r.session(user)
}

func (r *Resolver) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &models.ValidationError{Field: "credentials", Message: "Email and password are required"}
	}
	user, err := r.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return r.session(user)
}

func (r *Resolver) session(user *models.User) (*Session, error) {
	token, err := r.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Summary()}, nil
}

// ResolveSession verifies the token and loads the identity it names.
func (r *Resolver) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	userID, err := r.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := r.users.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func RequireAdmin(u *models.User) error {
	if u == nil || !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
