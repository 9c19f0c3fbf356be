//go:generate goverter gen github.com/find-this-fit/go-backend/internal/repository/redis/converter

package converter

import (
	"github.com/find-this-fit/go-backend/internal/usecase"
)

// goverter:converter
// goverter:extend ConvertPointerString
// goverter:extend ConvertPointerInt64
type ItemInfoConverter interface {
	ToRedisModel(entity *usecase.ItemInfo) *ItemInfoRedisModel
	ToUseCase(model *ItemInfoRedisModel) *usecase.ItemInfo
	ToArrRedisModel(entities []usecase.ItemInfo) []ItemInfoRedisModel
	ToArrUseCase(models []ItemInfoRedisModel) []usecase.ItemInfo
}

func ConvertPointerString(s *string) *string {
	return s
}

func ConvertPointerInt64(v *int64) *int64 {
	return v
}
