package domain

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the registration payload.
type SignupInput struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	ZipCode     string `json:"zipCode"`
}

// ProfileUpdate holds the profile fields a user may change. Empty fields are left untouched.
type ProfileUpdate struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	ProfilePic string `json:"profilePic"`
}

// Session is the result of a successful login.
type Session struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, username string) (string, time.Time, error)
}

// Accounts registers users, checks credentials and edits profiles.
type Accounts struct {
	users    UserStore
	issuer   TokenIssuer
	validate *validator.Validate
	hashCost int
	opts     options
}

// NewAccounts constructs Accounts. hashCost below bcrypt.MinCost selects bcrypt.DefaultCost.
func NewAccounts(users UserStore, issuer TokenIssuer, hashCost int, opts ...Option) *Accounts {
	if hashCost < bcrypt.MinCost {
		hashCost = bcrypt.DefaultCost
	}
	return &Accounts{
		users:    users,
		issuer:   issuer,
		validate: newValidator(),
		hashCost: hashCost,
		opts:     defaultOptions(opts),
	}
}

// Register creates a user with a bcrypt password hash.
func (s *Accounts) Register(ctx context.Context, in SignupInput) (*User, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     in.Username,
		UserID:       s.opts.newID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		ZipCode:      in.ZipCode,
		PasswordHash: string(hash),
		CreatedAt:    s.opts.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, dependency("create user", err)
	}
	return &user, nil
}

// Login checks the password and issues a session token.
func (s *Accounts) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, dependency("load user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.issuer.Issue(user.UserID, user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: user.UserID, Username: user.Username, Token: token, ExpiresAt: expires}, nil
}

// Profile returns the stored user or ErrNotFound.
func (s *Accounts) Profile(ctx context.Context, username string) (*User, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, dependency("load user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of update.
func (s *Accounts) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error {
	if err := validateStruct(s.validate, update); err != nil {
		return err
	}
	user, err := s.Profile(ctx, username)
	if err != nil {
		return err
	}

	renamed := (update.FirstName != "" && update.FirstName != user.FirstName) ||
		(update.LastName != "" && update.LastName != user.LastName)
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Phone != "" {
		user.PhoneNumber = update.Phone
	}
	if update.ProfilePic != "" {
		user.ProfilePic = update.ProfilePic
	}

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return err
		}
		return dependency("update user", err)
	}
	if renamed {
		// Leaderboard display names come from the profile.
		if err := s.opts.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Str("username", username).Msg("domain: leaderboard cache invalidation failed")
		}
	}
	return nil
}
