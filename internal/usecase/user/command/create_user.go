package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const minNameLength = 2

// CreateUserInput はユーザー登録の入力を定義します
// IDはIDプロバイダーが発行したものをそのまま使用します
type CreateUserInput struct {
	ID    string
	Email string
	Name  string
}

// CreateUserCommand はユーザーディレクトリへの登録コマンドです
// 認証情報はIDプロバイダーが保持するため、ここでは保存しません
type CreateUserCommand struct {
	userRepo     repository.UserRepository
	auditService service.AuditService
	now          func() time.Time
}

// NewCreateUserCommand は新しいCreateUserCommandを作成します
func NewCreateUserCommand(userRepo repository.UserRepository, auditService service.AuditService) *CreateUserCommand {
	return &CreateUserCommand{
		userRepo:     userRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

// Execute はユーザー登録を実行します
func (c *CreateUserCommand) Execute(ctx context.Context, input CreateUserInput) (_ *entity.User, err error) {
	ctx, span := telemetry.StartSpan(ctx, "user.Create")
	defer func() { telemetry.EndSpan(span, err) }()

	user, err := c.newUser(input)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserID, user.ID.String()))

	if err := c.userRepo.Create(ctx, user); err != nil {
		if appErr, ok := apperror.As(err); ok && appErr.Code == apperror.CodeConflict {
			return nil, appErr
		}
		return nil, apperror.NewInternalError(err)
	}

	c.auditService.Log(ctx, service.UserAuditEntry(user.ID, entity.AuditActionUserCreated, map[string]interface{}{
		"email": user.Email.String(),
	}))

	return user, nil
}

func (c *CreateUserCommand) newUser(input CreateUserInput) (*entity.User, error) {
	var fields []apperror.FieldError

	id, err := uuid.Parse(input.ID)
	if err != nil || id == uuid.Nil {
		fields = append(fields, apperror.FieldError{Field: "id", Message: "must be a valid UUID"})
	}
	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "email", Message: err.Error()})
	}
	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < minNameLength {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "must be at least 2 characters"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError("invalid user data", fields)
	}

	now := c.now()
	return &entity.User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
