package repository

import "github.com/xm-shop/crm-api/internal/domain/entity"

// UserRepository is the persistence port for User (auth).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
