package infrastructure

import "github.com/find-this-fit/go-backend/pkg/e"

// ImageExtension подбирает расширение объекта в хранилище по MIME-типу фото.
// Маркетплейсы отдают jpeg, png и webp; всё остальное считается
// неподдерживаемым и отклоняется с e.ErrUnsupportedMediaType.
func ImageExtension(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}
