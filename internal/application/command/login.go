package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/mentor"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Username-based session issue. Accounts have no passwords; group membership
// gates students (join code at registration) and the mentor code gates
// mentors, so login only proves the username exists and mints a session.
// ══════════════════════════════════════════════════════════════════════════════

// Session roles embedded in the token.
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// SessionClaims is the JWT payload for an authenticated session.
type SessionClaims struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
	jwt.RegisteredClaims
}

// LoginCommand contains the credentials.
type LoginCommand struct {
	Username string
	Role     string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Role != RoleStudent && c.Role != RoleMentor {
		return errors.New("login: role must be student or mentor")
	}
	if _, err := shared.NewUsername(c.Username); err != nil {
		return err
	}
	return nil
}

// LoginResult carries the issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	SubjectID string
	Role      string
	Name      string
	GroupID   string
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	studentRepo student.Repository
	mentorRepo  mentor.Repository
	signingKey  []byte
	tokenTTL    time.Duration
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(studentRepo student.Repository, mentorRepo mentor.Repository, signingKey string, tokenTTL time.Duration) *LoginHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &LoginHandler{
		studentRepo: studentRepo,
		mentorRepo:  mentorRepo,
		signingKey:  []byte(signingKey),
		tokenTTL:    tokenTTL,
	}
}

// Handle executes the login command.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("login: validation failed: %w", err)
	}

	username, err := shared.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}

	var (
		subjectID string
		name      string
		groupID   string
	)
	switch cmd.Role {
	case RoleStudent:
		stud, err := h.studentRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		subjectID, name, groupID = stud.ID.String(), stud.Name, stud.GroupID.String()
	case RoleMentor:
		m, err := h.mentorRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		subjectID, name, groupID = m.ID.String(), m.Name, m.GroupID.String()
	}

	now := time.Now()
	expiresAt := now.Add(h.tokenTTL)
	claims := SessionClaims{
		Role:    cmd.Role,
		Name:    name,
		GroupID: groupID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "cetele",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.signingKey)
	if err != nil {
		return nil, fmt.Errorf("login: failed to sign token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		SubjectID: subjectID,
		Role:      cmd.Role,
		Name:      name,
		GroupID:   groupID,
	}, nil
}

// ParseSession validates a token string and returns its claims.
func ParseSession(tokenString string, signingKey []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, shared.WrapError("auth", "ParseSession", shared.ErrUnauthorized, "invalid session token", err)
	}
	if !token.Valid {
		return nil, shared.NewDomainError("auth", "ParseSession", shared.ErrUnauthorized, "invalid session token")
	}
	return claims, nil
}
