package contract

import (
	"context"

	"ai-scribe-be/internal/entity"
	"ai-scribe-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	Update(ctx context.Context, activity *entity.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClientId(ctx context.Context, clientId uuid.UUID) error // Cascade from client deletion
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activity, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
