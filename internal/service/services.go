// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives request data from the handler, builds store
// items, calls repository methods and converts what comes
// back into plain records.
package service

import (
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
)

type Services struct {
	Users *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Users: NewUserService(s, repos.Users),
	}
}
