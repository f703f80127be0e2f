package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// UpdateUser saves the password hash & the authenticated flag of usr.
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	ServiceInterface interface {
		Signup(ctx context.Context, nu NewUser) (User, error)
		Login(ctx context.Context, creds Credentials) (User, error)
		Logout(ctx context.Context, id string) error
		VerifyAuthentication(ctx context.Context, id string) (bool, error)
		IsAuthenticated(ctx context.Context, email string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		ResetPassword(ctx context.Context, email, pwd string) error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Signup creates a User, already authenticated.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}
	if err := CheckPassword(nu.Password, nu.Email); err != nil {
		return User{}, err
	}

	now := svc.clock().UTC()
	usr := User{
		Email:         nu.Email,
		Authenticated: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	return usr, errors.Wrap(err, "creating user")
}

// Login checks the credentials and flags the User as authenticated.
func (svc *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return svc.setAuthenticated(ctx, usr, true)
}

func (svc *Service) Logout(ctx context.Context, id string) error {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = svc.setAuthenticated(ctx, usr, false)
	return err
}

func (svc *Service) VerifyAuthentication(ctx context.Context, id string) (bool, error) {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return usr.Authenticated, nil
}

// IsAuthenticated looks the User up by email; the caller reads User.Authenticated.
func (svc *Service) IsAuthenticated(ctx context.Context, email string) (User, error) {
	return svc.GetByEmail(ctx, email)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	if core.CleanString(id) == "" {
		return User{}, core.NewArgumentError("id", "user ID is required")
	}
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" {
		return User{}, core.NewArgumentError("email", "email is required")
	}
	return svc.repo.GetUserByEmail(ctx, email)
}

// ResetPassword sets a new password without asking for the old one (admin use only).
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = CheckPassword(pwd, usr.Email); err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = svc.clock().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}

func (svc *Service) setAuthenticated(ctx context.Context, usr User, authenticated bool) (User, error) {
	usr.Authenticated = authenticated
	usr.UpdatedAt = svc.clock().UTC()
	usr, err := svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating user")
}
