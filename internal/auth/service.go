// Package auth implements the login check for the two portal roles. A
// student authenticates with a roll number whose password is the roll number
// itself; the submitted flag is always re-read from the store here, never
// trusted from the client's cached session. The admin is a single shared
// identity configured through the environment.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nptc-feedback/backend/internal/shared"
	"github.com/nptc-feedback/backend/internal/store"
)

// Credentials is the login request body. Role selects which of the other
// fields matter: students send rollNo+password, the admin sends
// username+password.
type Credentials struct {
	Role     string `json:"role"`
	RollNo   string `json:"rollNo,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Result is a successful login: the client-held user view plus a signed
// token the client keeps for the browser session.
type Result struct {
	User  shared.User
	Token string
}

// Claims are the token claims issued on login.
type Claims struct {
	Role   string `json:"role"`
	RollNo string `json:"rollNo,omitempty"`
	jwt.RegisteredClaims
}

const tokenIssuer = "exit-feedback-portal"

// Service performs the authentication check.
type Service struct {
	store      store.Store
	admin      shared.AdminConfig
	security   shared.SecurityConfig
	loginRetry shared.RetryPolicy
}

// NewService creates an auth service over an aggregate store handle.
func NewService(st store.Store, admin shared.AdminConfig, security shared.SecurityConfig, loginRetry shared.RetryPolicy) *Service {
	return &Service{
		store:      st,
		admin:      admin,
		security:   security,
		loginRetry: loginRetry,
	}
}

// Login validates credentials for either role. Unrecognized roles fail with
// a validation error; credential mismatches and unknown roll numbers are
// unauthorized; a student who already submitted is forbidden.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Result, error) {
	switch creds.Role {
	case shared.RoleStudent:
		return s.loginStudent(ctx, creds)
	case shared.RoleAdmin:
		return s.loginAdmin(creds)
	default:
		return nil, shared.NewError(shared.KindValidation, "Invalid role specified")
	}
}

// loginStudent looks up the roster row for the uppercased roll number,
// retrying transient store failures on the shorter login budget, then gates
// on the submitted flag and the roll-number-as-password rule.
func (s *Service) loginStudent(ctx context.Context, creds Credentials) (*Result, error) {
	rollUpper := strings.ToUpper(strings.TrimSpace(creds.RollNo))

	var student *shared.Student
	err := s.loginRetry.Do(ctx, "student lookup", func(ctx context.Context) error {
		found, lookupErr := s.store.FindStudent(ctx, rollUpper)
		if lookupErr != nil {
			return lookupErr
		}
		student = found
		return nil
	})
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.NewError(shared.KindUnauthorized, "Invalid Login Credentials - Student not found")
		}
		return nil, err
	}

	if student.HasSubmitted {
		return nil, &shared.Error{
			Kind:            shared.KindForbidden,
			Message:         "Feedback already submitted",
			SuggestedAction: "Please contact the department admin if you believe this is an error.",
		}
	}

	if strings.ToUpper(creds.Password) != strings.ToUpper(student.RollNo) {
		return nil, shared.NewError(shared.KindUnauthorized, "Invalid Login Credentials (Roll No/Password mismatch)")
	}

	department := student.Department
	if department == "" {
		department = shared.DefaultDepartment
	}

	user := shared.User{
		Role:         shared.RoleStudent,
		RollNo:       student.RollNo,
		Name:         student.Name,
		Department:   department,
		HasSubmitted: student.HasSubmitted,
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, shared.WrapError(shared.KindPersistence, "Failed to issue session token", err)
	}

	return &Result{User: user, Token: token}, nil
}

// loginAdmin compares the single shared admin credential pair. When a bcrypt
// hash is configured it is checked instead of the plaintext password.
func (s *Service) loginAdmin(creds Credentials) (*Result, error) {
	if creds.Username != s.admin.Username || !s.adminPasswordMatches(creds.Password) {
		return nil, shared.NewError(shared.KindUnauthorized, "Invalid Admin Credentials")
	}

	user := shared.User{
		Role:     shared.RoleAdmin,
		Username: s.admin.Username,
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, shared.WrapError(shared.KindPersistence, "Failed to issue session token", err)
	}

	return &Result{User: user, Token: token}, nil
}

func (s *Service) adminPasswordMatches(password string) bool {
	if s.admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
	}
	return password == s.admin.Password
}

// generateToken signs an HS256 token carrying the role and roll number.
func (s *Service) generateToken(user shared.User) (string, error) {
	expiresAt := time.Now().Add(time.Duration(s.security.JWTExpirationHours) * time.Hour)

	claims := Claims{
		Role:   user.Role,
		RollNo: user.RollNo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.security.JWTSecret))
}

// ParseToken validates a token's signature and expiry and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, shared.NewError(shared.KindUnauthorized, "Invalid or expired session token")
	}
	return claims, nil
}
