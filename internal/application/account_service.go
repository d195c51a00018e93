package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/config"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
	"github.com/dorpsplein/dorpsplein-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInviteInvalid      = errors.New("invalid or expired invite token")
	ErrRegistrationRej    = errors.New("registration rejected")
)

// RegistrationError carries the aggregated step-guard violations of a
// rejected submit.
type RegistrationError struct {
	Steps []StepError
}

func (e *RegistrationError) Error() string { return "registration form incomplete" }

// Details maps step names to guard messages for the API error payload.
func (e *RegistrationError) Details() map[string]string {
	names := map[Step]string{
		StepWelcome: "welcome",
		StepRole:    "role",
		StepAccount: "account",
		StepProfile: "profile",
		StepPayout:  "payout",
		StepTerms:   "terms",
	}
	out := make(map[string]string, len(e.Steps))
	for _, se := range e.Steps {
		out[names[se.Step]] = se.Err.Error()
	}
	return out
}

// AccountService implements registration, sign-in and the async
// field validators behind the signup wizard.
type AccountService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAccountService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AccountService {
	return &AccountService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger, Cfg: cfg, Pub: pub}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string  { return "user:session:" + userID }
func usernameCheckKey(u string) string { return "validate:username:" + u }
func emailCheckKey(e string) string    { return "validate:email:" + e }
func inviteKey(token string) string    { return "invite:token:" + token }

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ValidateUsername runs the signup username check. Inputs under 3
// characters or with bad characters fail locally without touching the
// store. Store-backed results are cached for the configured idle window
// so a burst of keystroke-driven checks costs one lookup.
func (s *AccountService) ValidateUsername(ctx context.Context, username string) (*ValidationResult, error) {
	normalized, res, ok := CheckUsernameFormat(username)
	if !ok {
		return res, nil
	}

	if s.Redis != nil {
		var cached ValidationResult
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, usernameCheckKey(normalized), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	exists, err := s.Repo.UsernameExists(normalized)
	if err != nil {
		return &ValidationResult{Valid: false, Message: "controle mislukt, probeer het opnieuw"}, err
	}
	out := &ValidationResult{Valid: !exists}
	if exists {
		out.Message = "deze gebruikersnaam is al in gebruik"
	} else {
		out.Message = "gebruikersnaam is beschikbaar"
	}

	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, usernameCheckKey(normalized), out, s.Cfg.ValidationCacheTTL)
	}
	return out, nil
}

// ValidateEmail runs the signup email check with the same caching rules.
func (s *AccountService) ValidateEmail(ctx context.Context, email string) (*ValidationResult, error) {
	normalized, res, ok := CheckEmailFormat(email)
	if !ok {
		return res, nil
	}

	if s.Redis != nil {
		var cached ValidationResult
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, emailCheckKey(normalized), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	exists, err := s.Repo.EmailExists(normalized)
	if err != nil {
		return &ValidationResult{Valid: false, Message: "controle mislukt, probeer het opnieuw"}, err
	}
	out := &ValidationResult{Valid: !exists}
	if exists {
		out.Message = "dit e-mailadres is al geregistreerd"
	} else {
		out.Message = "e-mailadres is beschikbaar"
	}

	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, emailCheckKey(normalized), out, s.Cfg.ValidationCacheTTL)
	}
	return out, nil
}

// ValidateInvite checks a signup invite token.
func (s *AccountService) ValidateInvite(ctx context.Context, token string) (bool, error) {
	if token == "" || s.Redis == nil {
		return false, nil
	}
	n, err := s.Redis.Exists(ctx, inviteKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateInvite stores a single-use invite token (used by ops tooling and seed).
func (s *AccountService) CreateInvite(ctx context.Context, ttl time.Duration) (string, error) {
	tok, err := helpers.GenToken(16)
	if err != nil {
		return "", err
	}
	if err := s.Redis.Set(ctx, inviteKey(tok), "1", ttl).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

// Register validates the full wizard payload with every step guard,
// creates the account and queues the welcome email. The username guard is
// resolved server-side against the store.
func (s *AccountService) Register(ctx context.Context, form *RegistrationForm) (*entity.User, error) {
	if s.Cfg.InviteRequired {
		ok, err := s.ValidateInvite(ctx, form.InviteToken)
		if err != nil || !ok {
			return nil, ErrInviteInvalid
		}
	}

	w := NewWizard(form)
	unameRes, err := s.ValidateUsername(ctx, form.Username)
	if err == nil && unameRes != nil {
		w.UsernameValid = &unameRes.Valid
	}
	if errs := w.ValidateAll(); len(errs) > 0 {
		return nil, &RegistrationError{Steps: errs}
	}

	email, _, _ := CheckEmailFormat(form.Email)
	if exists, err := s.Repo.EmailExists(email); err != nil {
		return nil, err
	} else if exists {
		return nil, &RegistrationError{Steps: []StepError{{Step: StepAccount, Err: errors.New("email already registered")}}}
	}

	username, _, _ := CheckUsernameFormat(form.Username)
	u := &entity.User{
		Email:           email,
		Username:        username,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		DisplayNamePref: "username",
		Bio:             form.Bio,
		Quote:           form.Quote,
		Street:          form.Street,
		HouseNumber:     form.HouseNumber,
		PostalCode:      form.PostalCode,
		City:            form.City,
		Country:         form.Country,
		SellerRoles:     form.SellerRoles,
		BuyerType:       form.BuyerType,
		SocialLogin:     form.SocialLogin,
	}
	if !form.SocialLogin {
		hash, err := helpers.HashPassword(form.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if form.HasSellerRole() {
		u.Business = &entity.BusinessProfile{
			KVKNumber:    form.KVKNumber,
			VATNumber:    form.VATNumber,
			Subscription: "free",
			TaxAcked:     form.TaxAcked,
		}
	}

	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	// Single-use invites burn on successful signup.
	if form.InviteToken != "" && s.Redis != nil {
		_ = s.Redis.Del(ctx, inviteKey(form.InviteToken)).Err()
	}

	if s.Pub != nil && s.Cfg.MailSendEnabled {
		job := mailer.EmailJob{
			To:     u.Email,
			UserID: u.ID,
			Event:  mailer.EventWelcome,
			Data:   map[string]any{"Name": u.DisplayName(), "WelcomeURL": s.Cfg.WelcomeURL},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}

	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.SocialLogin || !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"name":       u.DisplayName(),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Username: u.Username, Name: u.DisplayName()}, pair, nil
}

// Refresh rotates the session id and both tokens after validating the
// refresh token against the active session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// Logout drops the Redis session.
func (s *AccountService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil && userID != "" {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}
