// Package session provides access to the current auth session.
//
// The gateway asks for the bearer token on every call rather than holding
// one; the token is never cached beyond the call. Expired or missing
// credentials surface as ErrAuthRequired so callers can redirect the user
// to sign-in instead of making a doomed request.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrAuthRequired indicates there is no valid session. Operations that hit
// it should abort and send the user to sign-in.
var ErrAuthRequired = errors.New("sign-in required")

// Provider supplies the current session token on demand.
type Provider interface {
	// Token returns the current bearer token, or ErrAuthRequired when no
	// valid session exists.
	Token(ctx context.Context) (string, error)

	// SignOut ends the current session with the auth provider.
	SignOut(ctx context.Context) error
}

// TokenSourceProvider adapts an oauth2.TokenSource into a Provider.
//
// Each Token call goes back to the source, so refreshing sources keep
// working without any coordination here. Tokens that look like JWTs get a
// client-side expiry check (unverified; the server still validates the
// signature) so an expired session fails fast without a round trip.
type TokenSourceProvider struct {
	src     oauth2.TokenSource
	signOut func(ctx context.Context) error
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a TokenSourceProvider.
type Option func(*TokenSourceProvider)

// WithSignOut sets the function invoked by SignOut. Without it, SignOut
// only logs; static token sources have nothing to revoke.
func WithSignOut(fn func(ctx context.Context) error) Option {
	return func(p *TokenSourceProvider) { p.signOut = fn }
}

// WithClock overrides the time source used for expiry checks (tests).
func WithClock(now func() time.Time) Option {
	return func(p *TokenSourceProvider) { p.now = now }
}

// NewTokenSourceProvider creates a Provider backed by src.
func NewTokenSourceProvider(src oauth2.TokenSource, log *zap.Logger, opts ...Option) *TokenSourceProvider {
	p := &TokenSourceProvider{
		src: src,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewStatic creates a Provider for a fixed bearer token.
func NewStatic(token string, log *zap.Logger, opts ...Option) *TokenSourceProvider {
	return NewTokenSourceProvider(
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), log, opts...)
}

// Token returns the current bearer token.
func (p *TokenSourceProvider) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tok, err := p.src.Token()
	if err != nil {
		p.log.Debug("token source returned error", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", ErrAuthRequired
	}
	if !tok.Expiry.IsZero() && !tok.Expiry.After(p.now()) {
		return "", ErrAuthRequired
	}
	if err := p.checkJWTExpiry(tok.AccessToken); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// SignOut ends the session. With no sign-out hook configured it is a no-op
// beyond logging.
func (p *TokenSourceProvider) SignOut(ctx context.Context) error {
	if p.signOut != nil {
		if err := p.signOut(ctx); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
	}
	p.log.Info("signed out")
	return nil
}

// checkJWTExpiry rejects JWT bearer tokens whose exp claim has passed.
// Tokens that do not parse as JWTs are treated as opaque and pass through.
func (p *TokenSourceProvider) checkJWTExpiry(raw string) error {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil // opaque token
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(p.now()) {
		p.log.Debug("bearer token expired", zap.Time("expired_at", exp.Time))
		return ErrAuthRequired
	}
	return nil
}
