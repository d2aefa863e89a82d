package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

// ConfirmationMaxAge is how long an e-mail confirmation link stays valid.
const ConfirmationMaxAge = 24 * time.Hour

const minPasswordLength = 8

// UserServiceConfig groups the settings of the account workflow.
type UserServiceConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// ConfirmURL is the base of the link sent by e-mail; the signed token is
	// appended as the last path segment.
	ConfirmURL string
}

type userService struct {
	repo   ports.UserRepository
	signer ports.TokenSigner
	mail   ports.MailQueue
	audit  ports.AuditTrail
	cfg    UserServiceConfig
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(
	repo ports.UserRepository,
	signer ports.TokenSigner,
	mail ports.MailQueue,
	audit ports.AuditTrail,
	cfg UserServiceConfig,
	log zerolog.Logger,
) ports.UserService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &userService{repo: repo, signer: signer, mail: mail, audit: audit, cfg: cfg, log: log}
}

// Register creates an inactive account and queues the confirmation e-mail.
// Mail delivery is best-effort and never fails the registration.
func (s *userService) Register(ctx context.Context, in ports.RegisterUserInput, ip string) (*domain.User, error) {
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		role = domain.Role(in.Role)
	}

	user := &domain.User{
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Phone:       strings.TrimSpace(in.Phone),
		Institution: strings.TrimSpace(in.Institution),
		Role:        role,
	}

	verr := &domain.ValidationError{}
	if err := user.Validate(); err != nil {
		errors.As(err, &verr)
	}
	if user.Username == "" {
		verr.Add("username", "username is required")
	}
	if user.Email == "" {
		verr.Add("email", "email is required")
	}
	if msg := checkPassword(in.Password); msg != "" {
		verr.Add("password", msg)
	}
	if in.Password != in.PasswordConfirm {
		verr.Add("password_confirm", "passwords do not match")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, user); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user.PasswordHash = string(hash)
	user.Active = false
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.sendConfirmation(user)

	s.audit.Record(ctx, nil, domain.ActionCreateUser,
		fmt.Sprintf("user %s registered as %s", user.Username, user.Role), ip)

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Confirm activates the account referenced by a signed confirmation token.
// Confirming an already active account is a no-op.
func (s *userService) Confirm(ctx context.Context, token, ip string) (*domain.User, error) {
	userID, err := s.signer.Unsign(token, ConfirmationMaxAge)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("confirm user: %w", err)
	}
	if user.Active {
		return user, nil
	}

	if err := s.repo.Activate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("confirm user: %w", err)
	}
	user.Active = true

	s.audit.Record(ctx, user, domain.ActionConfirmUser,
		fmt.Sprintf("user %s confirmed their e-mail address", user.Username), ip)

	return user, nil
}

// Login authenticates by username or e-mail and returns a bearer token.
func (s *userService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.repo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if isNotFound(err) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, domain.ErrInactiveUser
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, user, nil
}

// Get returns a user by ID.
func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ensureAvailable(ctx context.Context, user *domain.User) error {
	if _, err := s.repo.FindByUsername(ctx, user.Username); err == nil {
		return domain.NewFieldError("username", "username is already taken")
	} else if !isNotFound(err) {
		return fmt.Errorf("register: %w", err)
	}
	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return domain.NewFieldError("email", "email is already registered")
	} else if !isNotFound(err) {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (s *userService) sendConfirmation(user *domain.User) {
	token, err := s.signer.Sign(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to sign confirmation token")
		return
	}

	link := strings.TrimRight(s.cfg.ConfirmURL, "/") + "/" + token
	s.mail.Enqueue(ports.MailMessage{
		To:      user.Email,
		Subject: "Confirm your SGEA account",
		Body: fmt.Sprintf(
			"Hello %s,\n\nPlease confirm your account by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n",
			user.FullName(), link,
		),
	})
}

func (s *userService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

// checkPassword returns an empty string when password is acceptable.
func checkPassword(password string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	var letter, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !letter || !digit || !special {
		return "password must contain letters, digits and a special character"
	}
	return ""
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
