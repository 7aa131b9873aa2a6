package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
	repo "github.com/oksasatya/blogx-api/internal/domain/repository"
	"github.com/oksasatya/blogx-api/pkg/helpers"
	"github.com/oksasatya/blogx-api/pkg/mailer"
	mailtpl "github.com/oksasatya/blogx-api/pkg/mailer/templates"
)

// AccountService owns registration, sign-in, sessions, profiles and the
// administrative account operations.
type AccountService struct {
	Repo     repo.AccountRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Images   ImageStore
	Identity IdentityVerifier
	Notifier Notifier
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthResult is the outcome of any sign-in flow.
type AuthResult struct {
	Account *entity.Account
	Tokens  TokenPair
}

// FederatedMode selects how a verified federated identity is handled.
// The empty mode signs in when the account exists and registers otherwise.
type FederatedMode string

const (
	FederatedAuto     FederatedMode = ""
	FederatedLogin    FederatedMode = "login"
	FederatedRegister FederatedMode = "register"
)

func NewAccountService(accounts repo.AccountRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AccountService {
	return &AccountService{Repo: accounts, JWT: jwt, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a member account with a local password and signs it in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingField
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleMember,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	metricAccountsRegistered.Add(1)
	s.notify(ctx, mailer.EmailJob{
		To:       a.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(a.Username, a.Email),
	})
	return s.signIn(ctx, a)
}

// Login checks a local password. Blocked accounts are refused only after the
// password matched, so the response does not reveal block status to strangers.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	a, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if a.IsBlocked {
		return nil, policy.ErrAccountBlocked
	}
	metricLogins.Add(1)
	return s.signIn(ctx, a)
}

// FederatedAuth signs in or registers through a verified identity assertion.
func (s *AccountService) FederatedAuth(ctx context.Context, credential string, mode FederatedMode) (*AuthResult, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingField
	}
	if s.Identity == nil {
		return nil, fmt.Errorf("%w: no identity provider configured", ErrIdentityProvider)
	}
	id, err := s.Identity.Verify(ctx, credential)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("federated identity verification failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}
	id.Email = normalizeEmail(id.Email)
	if id.Email == "" || id.Subject == "" {
		return nil, fmt.Errorf("%w: assertion has no email", ErrMissingField)
	}

	existing, err := s.findFederated(ctx, id)
	if err != nil {
		return nil, err
	}

	switch mode {
	case FederatedRegister:
		if existing != nil {
			return nil, ErrEmailTaken
		}
		return s.registerFederated(ctx, id)
	case FederatedLogin:
		if existing == nil {
			return nil, ErrAccountNotFound
		}
		return s.loginFederated(ctx, existing, id)
	case FederatedAuto:
		if existing == nil {
			return s.registerFederated(ctx, id)
		}
		return s.loginFederated(ctx, existing, id)
	}
	return nil, fmt.Errorf("%w: unknown mode %q", ErrMissingField, mode)
}

func (s *AccountService) findFederated(ctx context.Context, id *FederatedIdentity) (*entity.Account, error) {
	a, err := s.Repo.GetByGoogleID(ctx, id.Subject)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	a, err = s.Repo.GetByEmail(ctx, id.Email)
	if err == nil {
		return a, nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

func (s *AccountService) registerFederated(ctx context.Context, id *FederatedIdentity) (*AuthResult, error) {
	a := &entity.Account{
		Username:  derivedUsername(id.Name, id.Email, time.Now()),
		Email:     id.Email,
		Role:      entity.RoleMember,
		GoogleID:  id.Subject,
		AvatarURL: id.AvatarURL,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) || errors.Is(err, repo.ErrDuplicateIdentity) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	metricAccountsRegistered.Add(1)
	s.notify(ctx, mailer.EmailJob{
		To:       a.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(a.Username, a.Email),
	})
	return s.signIn(ctx, a)
}

func (s *AccountService) loginFederated(ctx context.Context, a *entity.Account, id *FederatedIdentity) (*AuthResult, error) {
	if a.IsBlocked {
		return nil, policy.ErrAccountBlocked
	}
	// Link the identity on first federated sign-in of a password account. An
	// existing link to another subject is kept.
	changed := false
	if a.GoogleID == "" {
		a.GoogleID = id.Subject
		changed = true
	}
	if a.AvatarURL == "" && id.AvatarURL != "" {
		a.AvatarURL = id.AvatarURL
		changed = true
	}
	if changed {
		if err := s.Repo.Update(ctx, a); err != nil {
			return nil, err
		}
	}
	metricLogins.Add(1)
	return s.signIn(ctx, a)
}

// derivedUsername lowercases the display name, drops whitespace and appends
// four digits taken from the clock.
func derivedUsername(name, email string, now time.Time) string {
	base := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	return fmt.Sprintf("%s%04d", base, now.UnixMilli()%10000)
}

func (s *AccountService) signIn(ctx context.Context, a *entity.Account) (*AuthResult, error) {
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: a, Tokens: pair}, nil
}

// IssueTokens generates access/refresh tokens for a fresh session id and
// records the session when a session store is configured.
func (s *AccountService) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, string(a.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, string(a.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	if s.Sessions != nil {
		// Tokens without a recorded session are rejected by Auth, so never hand them out.
		if err := s.Sessions.Save(ctx, a.ID, sid, a.Role, s.JWT.RefreshTTL); err != nil {
			return TokenPair{}, fmt.Errorf("save session: %w", err)
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session of a valid refresh token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidSession
	}
	a, err := s.Repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if a.IsBlocked {
		return nil, policy.ErrAccountBlocked
	}
	if s.Sessions != nil {
		ok, err := s.Sessions.Valid(ctx, a.ID, claims.SessionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidSession
		}
	}
	return s.signIn(ctx, a)
}

// Logout ends the principal's session. Without a session store tokens simply expire.
func (s *AccountService) Logout(ctx context.Context, p entity.Principal) error {
	if p.Anonymous() {
		return policy.ErrUnauthenticated
	}
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, p.ID)
}

// Principal reloads the account behind a token. Role and block status always
// come from storage, never from the token.
func (s *AccountService) Principal(ctx context.Context, accountID string) (*entity.Account, error) {
	if !validID(accountID) {
		return nil, ErrInvalidSession
	}
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return a, nil
}

// SessionValid reports whether sessionID is the account's current session.
// It is always true when no session store is configured.
func (s *AccountService) SessionValid(ctx context.Context, accountID, sessionID string) (bool, error) {
	if s.Sessions == nil {
		return true, nil
	}
	return s.Sessions.Valid(ctx, accountID, sessionID)
}

func (s *AccountService) Profile(ctx context.Context, id string) (*entity.Account, error) {
	return s.load(ctx, id)
}

type UpdateProfileInput struct {
	Username  string
	AvatarURL string
}

// UpdateProfile changes the principal's own username and avatar. Empty fields keep their value.
func (s *AccountService) UpdateProfile(ctx context.Context, p entity.Principal, in UpdateProfileInput) (*entity.Account, error) {
	a, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.UpdateProfile, policy.OnAccount(a)).Err(); err != nil {
		return nil, err
	}
	if u := strings.TrimSpace(in.Username); u != "" {
		a.Username = u
	}
	if in.AvatarURL != "" {
		a.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UploadAvatar stores an image and makes it the principal's avatar.
func (s *AccountService) UploadAvatar(ctx context.Context, p entity.Principal, up *ImageUpload) (*entity.Account, error) {
	a, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.UpdateProfile, policy.OnAccount(a)).Err(); err != nil {
		return nil, err
	}
	if up == nil {
		return nil, fmt.Errorf("%w: image", ErrMissingField)
	}
	url, err := uploadImage(ctx, s.Images, "avatars", a.ID, up)
	if err != nil {
		return nil, err
	}
	a.AvatarURL = url
	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, p entity.Principal) ([]*entity.Account, error) {
	if err := policy.Authorize(p, policy.ListAccounts, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

// DeleteAccount removes an account. Its posts and comments are left in place.
func (s *AccountService) DeleteAccount(ctx context.Context, p entity.Principal, id string) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(p, policy.DeleteAccount, policy.OnAccount(a)).Err(); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	s.dropSession(ctx, a.ID)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "by": p.ID}).Info("account deleted")
	}
	return nil
}

// Block marks an account blocked and ends its session.
func (s *AccountService) Block(ctx context.Context, p entity.Principal, id string) (*entity.Account, error) {
	return s.setBlocked(ctx, p, id, true)
}

func (s *AccountService) Unblock(ctx context.Context, p entity.Principal, id string) (*entity.Account, error) {
	return s.setBlocked(ctx, p, id, false)
}

func (s *AccountService) setBlocked(ctx context.Context, p entity.Principal, id string, blocked bool) (*entity.Account, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	action, tpl := policy.UnblockAccount, mailtpl.AccountUnblocked
	if blocked {
		action, tpl = policy.BlockAccount, mailtpl.AccountBlocked
	}
	if err := policy.Authorize(p, action, policy.OnAccount(target)).Err(); err != nil {
		return nil, err
	}

	a, err := s.Repo.SetBlocked(ctx, target.ID, blocked)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAdminImmutable):
			return nil, policy.ErrCannotBlockAdmin
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if blocked {
		s.dropSession(ctx, a.ID)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "blocked": blocked, "by": p.ID}).Info("account block status changed")
	}
	data := mailtpl.NewAccountUnblockedData(a.Username, a.Email, mailtpl.WithTime(time.Now()))
	if blocked {
		data = mailtpl.NewAccountBlockedData(a.Username, a.Email, mailtpl.WithTime(time.Now()))
	}
	s.notify(ctx, mailer.EmailJob{To: a.Email, Template: tpl, Data: data})
	return a, nil
}

func (s *AccountService) load(ctx context.Context, id string) (*entity.Account, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AccountService) dropSession(ctx context.Context, accountID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Delete(ctx, accountID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("session delete failed")
	}
}

// notify is best effort: a failed publish never fails the operation.
func (s *AccountService) notify(ctx context.Context, job mailer.EmailJob) {
	if s.Notifier == nil || job.To == "" {
		return
	}
	if err := s.Notifier.Notify(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("notification publish failed")
	}
}
