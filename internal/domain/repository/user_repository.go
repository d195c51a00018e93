package repository

import "github.com/dorpsplein/dorpsplein-api/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	Update(u *entity.User) error
}
