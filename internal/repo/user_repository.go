package repo

import "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"

type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
}
