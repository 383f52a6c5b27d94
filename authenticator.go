package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterUserMessage carries the attributes of a registration request.
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Auther orchestrates the credential store, the password hasher, and the
// token service. It is safe for concurrent use: all mutable state lives in
// the injected store.
type Auther struct {
	store     UserStore
	hasher    *Hasher
	tokens    TokenService
	logger    Logger
	decoyHash string
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store UserStore, hasher *Hasher, tokens TokenService) *Auther {
	// burned on lookup misses so they cost the same as a real mismatch
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		decoy = ""
	}

	return &Auther{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		logger:    defLogger{},
		decoyHash: decoy,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies the credentials against the store and issues a session
// token. Unknown identities and wrong passwords return the same error.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			if s.decoyHash != "" {
				_ = s.hasher.Compare(password, s.decoyHash)
			}
			s.logger.Debug("login rejected", "reason", "identity not found")
			return "", ErrMismatchedHashAndPassword
		}
		s.logger.Error("login store lookup failed", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := s.hasher.Compare(password, user.PasswordHash); err != nil {
		s.logger.Debug("login rejected", "reason", "password mismatch")
		return "", ErrMismatchedHashAndPassword
	}

	token, err := s.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("login token generation failed", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue session token")
	}

	s.logger.Info("login succeeded", "identity", user.Email)
	return token, nil
}

// Register hashes the password and inserts a new credential record. The
// role is always RoleUser: registration can never mint an admin.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	if msg.Email == "" || msg.Password == "" {
		return nil, errors.New("email and password are required", errors.CategoryBadInput).
			WithTextCode(TextCodeMissingCreds)
	}

	hash, err := s.hasher.Hash(msg.Password)
	if err != nil {
		var rich *errors.Error
		if errors.As(err, &rich) && rich.Category == errors.CategoryBadInput {
			return nil, err
		}
		s.logger.Error("register password hashing failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		ID:           uuid.New(),
		Role:         RoleUser,
		FirstName:    msg.FirstName,
		LastName:     msg.LastName,
		Email:        msg.Email,
		PasswordHash: hash,
	}

	created, err := s.store.Insert(ctx, user)
	if err != nil {
		s.logger.Error("register store insert failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist user")
	}

	s.logger.Info("registered user", "identity", created.Email, "role", created.Role)
	return created, nil
}

var _ Authenticator = (*Auther)(nil)
