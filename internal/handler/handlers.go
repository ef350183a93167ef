package handler

import (
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/deppfellow/users-api/internal/service"
)

// Handlers is a container that groups all handlers, so router and Lambda
// setup take one object instead of many.
type Handlers struct {
	Health *HealthHandler
	Users  *UserHandler
	Lambda *LambdaHandler
}

func NewHandlers(s *server.Server, services *service.Services, repos *repository.Repositories) *Handlers {
	users := NewUserHandler(s, services.Users)

	return &Handlers{
		Health: NewHealthHandler(s, repos.Users),
		Users:  users,
		Lambda: NewLambdaHandler(s, users.Dispatch),
	}
}
