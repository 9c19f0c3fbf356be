//go:generate goverter gen github.com/find-this-fit/go-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/internal/usecase"
)

// ItemConverter преобразует сущности Item между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
// goverter:extend ConvertPointerInt64
type ItemConverter interface {
	// goverter:ignore EmbeddingVersion
	ToEntity(model *ItemModel) *domain.Item
	ToModel(entity *domain.Item) *ItemModel
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutboxStatus
// goverter:extend ConvertOutboxStatusToString
// goverter:extend ConvertOutboxEventType
// goverter:extend ConvertOutboxEventTypeToString
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertPointerString(s *string) *string {
	return s
}

func ConvertPointerInt64(v *int64) *int64 {
	return v
}

func ConvertOutboxStatus(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}

func ConvertOutboxStatusToString(s usecase.OutboxStatus) string {
	return string(s)
}

func ConvertOutboxEventType(t string) usecase.OutboxEventType {
	return usecase.OutboxEventType(t)
}

func ConvertOutboxEventTypeToString(t usecase.OutboxEventType) string {
	return string(t)
}
