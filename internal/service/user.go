package service

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/deppfellow/users-api/internal/errs"
	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/deppfellow/users-api/internal/validation"
)

// ErrAgeMissing is returned when a create or update body has no usable age.
var ErrAgeMissing = errors.New("cannot convert age to a number: value is missing")

// Operation names used in userId-required errors.
const (
	OpUpdate = "update"
	OpDelete = "delete"
)

// UserIDParams carries the userId query parameter of update and delete.
type UserIDParams struct {
	UserID string `validate:"required"`
}

func (p *UserIDParams) Validate() error {
	return validation.Struct(p)
}

type UserService struct {
	server *server.Server
	store  repository.Store
}

func NewUserService(s *server.Server, store repository.Store) *UserService {
	return &UserService{
		server: s,
		store:  store,
	}
}

// Create writes the user described by body, replacing any existing user
// with the same userId. The stored record is not returned.
func (us *UserService) Create(ctx context.Context, body *string) error {
	var payload model.UserPayload
	if err := validation.DecodeJSONBody(body, &payload); err != nil {
		return err
	}

	item, err := newUserItem(payload)
	if err != nil {
		return err
	}

	return us.store.Put(ctx, item)
}

// Get returns the user stored under userID, or nil.
func (us *UserService) Get(ctx context.Context, userID string) (model.Record, error) {
	item, err := us.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CleanItem(item), nil
}

// List returns every stored user.
func (us *UserService) List(ctx context.Context) ([]model.Record, error) {
	items, err := us.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return CleanItems(items), nil
}

// Update overwrites name, email and age of the user stored under userID
// and returns the user as stored afterwards. A missing user is created.
func (us *UserService) Update(ctx context.Context, userID string, body *string) (model.Record, error) {
	if err := RequireUserID(userID, OpUpdate); err != nil {
		return nil, err
	}

	var payload model.UserPayload
	if err := validation.DecodeJSONBody(body, &payload); err != nil {
		return nil, err
	}

	fields, err := newUserFields(payload)
	if err != nil {
		return nil, err
	}

	updated, err := us.store.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	return CleanItem(updated), nil
}

// Delete removes the user stored under userID and returns what was removed,
// or nil when there was nothing to remove.
func (us *UserService) Delete(ctx context.Context, userID string) (model.Record, error) {
	if err := RequireUserID(userID, OpDelete); err != nil {
		return nil, err
	}

	deleted, err := us.store.Delete(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CleanItem(deleted), nil
}

// RequireUserID returns the 400 for operation when userID is empty.
func RequireUserID(userID, operation string) error {
	if _, fieldErrors := validation.Check(&UserIDParams{UserID: userID}); fieldErrors != nil {
		return errs.NewUserIDRequiredError(operation, fieldErrors)
	}
	return nil
}

// newUserItem builds the full item written by create.
func newUserItem(payload model.UserPayload) (model.Item, error) {
	item, err := newUserFields(payload)
	if err != nil {
		return nil, err
	}
	item[model.AttrUserID] = &types.AttributeValueMemberS{Value: payload.UserID}
	return item, nil
}

// newUserFields builds the non-key attributes. Age must be present.
func newUserFields(payload model.UserPayload) (model.Item, error) {
	if !payload.Age.Valid {
		return nil, ErrAgeMissing
	}

	return model.Item{
		model.AttrName:  &types.AttributeValueMemberS{Value: payload.Name},
		model.AttrEmail: &types.AttributeValueMemberS{Value: payload.Email},
		model.AttrAge:   &types.AttributeValueMemberN{Value: payload.Age.String()},
	}, nil
}
