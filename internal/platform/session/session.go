// Package session issues and verifies analyst sessions.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTTL is how long a session token stays valid.
	DefaultTTL = 12 * time.Hour
	// DefaultAnalyst names visitors when sign-in is disabled.
	DefaultAnalyst = "analista"

	issuer        = "fraud-console"
	maxAnalystLen = 100
)

var (
	ErrInvalidCredentials = errors.New("invalid access code")
	ErrMissingAnalyst     = errors.New("analyst name is required")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// Session identifies one analyst's browser session.
type Session struct {
	ID      uuid.UUID
	Analyst string
}

// Claims represents the session token claims
type Claims struct {
	Analyst   string    `json:"analyst"`
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// Service handles session tokens and the optional access code
type Service struct {
	secret   []byte
	codeHash []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a session service. An empty accessCode disables sign-in;
// an empty secret is replaced by a random one, so tokens do not survive a restart.
func NewService(secret, accessCode string) (*Service, error) {
	s := &Service{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}

	if len(s.secret) == 0 {
		s.secret = make([]byte, 32)
		if _, err := rand.Read(s.secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	if accessCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash access code: %w", err)
		}
		s.codeHash = hash
	}

	return s, nil
}

// Enabled reports whether analysts must sign in.
func (s *Service) Enabled() bool {
	return len(s.codeHash) > 0
}

// TTL returns the token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login checks the access code and returns a signed token for a new session.
func (s *Service) Login(analyst, code string) (string, Session, error) {
	analyst = strings.TrimSpace(analyst)
	if analyst == "" {
		return "", Session{}, ErrMissingAnalyst
	}
	if len(analyst) > maxAnalystLen {
		analyst = analyst[:maxAnalystLen]
	}
	if s.Enabled() {
		if err := bcrypt.CompareHashAndPassword(s.codeHash, []byte(code)); err != nil {
			return "", Session{}, ErrInvalidCredentials
		}
	}

	sess := Session{ID: uuid.New(), Analyst: analyst}
	token, err := s.Issue(sess)
	if err != nil {
		return "", Session{}, err
	}
	return token, sess, nil
}

// Anonymous returns a token for the default analyst. Only meaningful when
// sign-in is disabled.
func (s *Service) Anonymous() (string, Session, error) {
	sess := Session{ID: uuid.New(), Analyst: DefaultAnalyst}
	token, err := s.Issue(sess)
	if err != nil {
		return "", Session{}, err
	}
	return token, sess, nil
}

// Issue signs a token for sess.
func (s *Service) Issue(sess Session) (string, error) {
	now := s.now()
	claims := &Claims{
		Analyst:   sess.Analyst,
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its session.
func (s *Service) Parse(tokenString string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Analyst == "" || claims.SessionID == uuid.Nil {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: claims.SessionID, Analyst: claims.Analyst}, nil
}

type contextKey struct{}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext extracts the session from ctx.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}

// AnalystFromContext returns the session's analyst, or DefaultAnalyst.
func AnalystFromContext(ctx context.Context) string {
	if sess, ok := FromContext(ctx); ok {
		return sess.Analyst
	}
	return DefaultAnalyst
}
