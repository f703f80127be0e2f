package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
)

const usersCollection = "users"

type userRepository struct {
	store core.DocumentStore
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(store core.DocumentStore) *userRepository {
	return &userRepository{store: store}
}

type (
	userDoc struct {
		Email         string `json:"email"`
		PasswordHash  []byte `json:"passwordHash"`
		Authenticated bool   `json:"authenticated"`
	}

	// userUpdate holds the fields UpdateUser may change.
	userUpdate struct {
		PasswordHash  []byte `json:"passwordHash,omitempty"`
		Authenticated bool   `json:"authenticated"`
	}
)

func (repo userRepository) toDoc(usr user.User) userDoc {
	return userDoc{
		Email:         usr.Email,
		PasswordHash:  usr.PasswordHash,
		Authenticated: usr.Authenticated,
	}
}

func (repo userRepository) fromDoc(doc core.Document) (user.User, error) {
	var d userDoc
	if err := doc.Decode(&d); err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:            doc.ID,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Authenticated: d.Authenticated,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (repo userRepository) findByEmail(ctx context.Context, email string) ([]core.Document, error) {
	q := core.Query{Limit: 1}.Where("email", core.OpEqual, email)
	return repo.store.Query(ctx, usersCollection, q)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	docs, err := repo.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := repo.store.Add(ctx, usersCollection, repo.toDoc(usr))
	if err != nil {
		return user.User{}, err
	}
	return repo.fromDoc(doc)
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	doc, err := repo.store.Get(ctx, usersCollection, id)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return repo.fromDoc(doc)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	docs, err := repo.findByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if len(docs) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.fromDoc(docs[0])
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := repo.store.Update(ctx, usersCollection, usr.ID, userUpdate{
		PasswordHash:  usr.PasswordHash,
		Authenticated: usr.Authenticated,
	})
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return repo.fromDoc(doc)
}
