package users

import (
	"context"

	"github.com/dmitrijs2005/kynetix/internal/server/models"
)

// Repository is the user record store.
//
// Create returns common.ErrorConflict when the phone number or email is
// already taken; the lookups return common.ErrorNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
