package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/interface/dto/request"
	"github.com/Hamzaidb/repo-saas/internal/interface/dto/response"
	"github.com/Hamzaidb/repo-saas/internal/interface/presenter"
	usercmd "github.com/Hamzaidb/repo-saas/internal/usecase/user/command"
)

// UserHandler はユーザーディレクトリのHTTPハンドラーです
type UserHandler struct {
	createUserCommand *usercmd.CreateUserCommand
}

// NewUserHandler は新しいUserHandlerを作成します
func NewUserHandler(createUserCommand *usercmd.CreateUserCommand) *UserHandler {
	return &UserHandler{createUserCommand: createUserCommand}
}

// CreateUser はIDプロバイダーで作成されたユーザーの登録を処理します
// POST /api/v1/users
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req request.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.createUserCommand.Execute(c.Request().Context(), usercmd.CreateUserInput{
		ID:    req.ID,
		Email: req.Email,
		Name:  strings.TrimSpace(req.Name),
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, "user created", response.NewUserResponse(user))
}
