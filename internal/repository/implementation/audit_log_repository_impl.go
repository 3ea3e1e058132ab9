package implementation

import (
	"context"
	"encoding/json"
	"time"

	"ai-scribe-be/internal/entity"
	"ai-scribe-be/internal/model"
	"ai-scribe-be/internal/repository/contract"
	"ai-scribe-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	details, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}

	m := &model.AuditLog{
		Id:        log.Id,
		EventType: log.EventType,
		Details:   datatypes.JSON(details),
		CreatedAt: log.CreatedAt,
	}
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AuditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	logs := make([]*entity.AuditLog, len(models))
	for i, m := range models {
		var details map[string]interface{}
		_ = json.Unmarshal(m.Details, &details)
		logs[i] = &entity.AuditLog{
			Id:        m.Id,
			EventType: m.EventType,
			Details:   details,
			CreatedAt: m.CreatedAt,
		}
	}
	return logs, nil
}
