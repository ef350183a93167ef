package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/users-api/internal/errs"
	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/deppfellow/users-api/internal/service"
)

// Response messages.
const (
	MessagePreflightOK = "CORS preflight OK"
	MessageUserAdded   = "User added successfully!"
	MessageUserUpdated = "User updated successfully"
	MessageUserDeleted = "User deleted"
)

type getUserResponse struct {
	User model.Record `json:"user"`
}

type listUsersResponse struct {
	Users []model.Record `json:"users"`
}

type updateUserResponse struct {
	Message     string       `json:"message"`
	UpdatedUser model.Record `json:"updatedUser"`
}

type deleteUserResponse struct {
	Message     string       `json:"message"`
	DeletedUser model.Record `json:"deletedUser"`
}

// UserHandler routes user requests by HTTP method.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// Dispatch handles one request end to end and never fails: every error is
// folded into the returned Response.
//
// OPTIONS is answered before anything else is looked at. POST, GET, PUT and
// DELETE map onto create, read, update and delete; any other method is a 400.
func (h *UserHandler) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()
	operation := operationName(req)

	logger := h.logger(ctx).With().
		Str("method", req.Method).
		Str("operation", operation).
		Logger()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("users.operation", operation)
	}

	var resp Response
	body, err := h.route(ctx, req)
	if err != nil {
		resp = errorResponse(err)
	} else {
		resp = jsonResponse(http.StatusOK, body)
	}

	if txn != nil {
		txn.AddAttribute("users.status_code", resp.StatusCode)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		if txn != nil && err != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		logger.Error().
			Err(err).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("request failed")
	case resp.StatusCode >= http.StatusBadRequest:
		logger.Warn().
			Err(err).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("request rejected")
	default:
		logger.Info().
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}

	return resp
}

func (h *UserHandler) route(ctx context.Context, req Request) (any, error) {
	userID := req.Query[model.AttrUserID]

	switch req.Method {
	case http.MethodOptions:
		return messageBody{Message: MessagePreflightOK}, nil

	case http.MethodPost:
		body, err := req.payload()
		if err != nil {
			return nil, err
		}
		if err := h.users.Create(ctx, body); err != nil {
			return nil, err
		}
		return messageBody{Message: MessageUserAdded}, nil

	case http.MethodGet:
		if userID != "" {
			user, err := h.users.Get(ctx, userID)
			if err != nil {
				return nil, err
			}
			return getUserResponse{User: user}, nil
		}
		users, err := h.users.List(ctx)
		if err != nil {
			return nil, err
		}
		return listUsersResponse{Users: users}, nil

	case http.MethodPut:
		if err := service.RequireUserID(userID, service.OpUpdate); err != nil {
			return nil, err
		}
		body, err := req.payload()
		if err != nil {
			return nil, err
		}
		updated, err := h.users.Update(ctx, userID, body)
		if err != nil {
			return nil, err
		}
		return updateUserResponse{Message: MessageUserUpdated, UpdatedUser: updated}, nil

	case http.MethodDelete:
		deleted, err := h.users.Delete(ctx, userID)
		if err != nil {
			return nil, err
		}
		return deleteUserResponse{Message: MessageUserDeleted, DeletedUser: deleted}, nil

	default:
		return nil, errs.NewUnsupportedMethodError()
	}
}

func operationName(req Request) string {
	switch req.Method {
	case http.MethodOptions:
		return "preflight"
	case http.MethodPost:
		return "create_user"
	case http.MethodGet:
		if req.Query[model.AttrUserID] != "" {
			return "get_user"
		}
		return "list_users"
	case http.MethodPut:
		return "update_user"
	case http.MethodDelete:
		return "delete_user"
	default:
		return "unsupported"
	}
}
