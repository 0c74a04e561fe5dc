package repository

import (
	"context"
	"errors"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ErrDuplicateEmail is returned when registering an address that already
// has an account.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_users"
}

// CreateUser inserts a new user after checking the email is unused. The
// existence check and the write are separate requests, so concurrent
// registrations of the same address can both pass the check; the account
// that writes last wins and the race is accepted.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var existing []*models.User
	err := r.db.QueryByIndex(ctx, r.tableName(), "email-index", "email", user.Email, &existing)
	if err == nil && len(existing) > 0 {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	user.ID = utils.GenerateUUID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if err := r.db.PutItem(ctx, r.tableName(), user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

// GetUserByID fetches a user by primary key
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, errors.New("user ID is required")
	}

	user := models.User{}
	config := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, config, &user); err != nil {
		r.logger.Errorf("Failed to get user by id: %v", err)
		return nil, err
	}

	if user.ID == "" {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetUserByEmail fetches a user through the email GSI
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	var users []*models.User
	if err := r.db.QueryByIndex(ctx, r.tableName(), "email-index", "email", email, &users); err != nil {
		r.logger.Errorf("Failed to get user by email: %v", err)
		return nil, err
	}

	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// UpdateUser applies a partial update to the user record
func (r *UserRepository) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return errors.New("user ID is required")
	}

	updates["updated_at"] = time.Now()
	if err := r.db.UpdateItem(ctx, r.tableName(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update user %s: %v", id, err)
		return err
	}
	return nil
}
