package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сводит доменные ошибки к HTTP-статусам. Категории различимы:
// плохой вход клиента, неподдерживаемая комбинация модальностей, сбой
// провайдера эмбеддингов и недоступность индекса дают разные коды.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, e.ErrInvalidInput.Error()
	case errors.Is(err, e.ErrDecode):
		return http.StatusBadRequest, e.ErrDecode.Error()
	case errors.Is(err, e.ErrInvalidLimit):
		return http.StatusBadRequest, e.ErrInvalidLimit.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrItemSourceRequired):
		return http.StatusBadRequest, e.ErrItemSourceRequired.Error()
	case errors.Is(err, e.ErrExternalIDRequired):
		return http.StatusBadRequest, e.ErrExternalIDRequired.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrTooManyImages):
		return http.StatusBadRequest, e.ErrTooManyImages.Error()
	case errors.Is(err, e.ErrNoImages):
		return http.StatusBadRequest, e.ErrNoImages.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrUnsupportedInput):
		return http.StatusUnprocessableEntity, e.ErrUnsupportedInput.Error()
	case errors.Is(err, e.ErrDegenerateFusion):
		return http.StatusUnprocessableEntity, e.ErrDegenerateFusion.Error()
	case errors.Is(err, e.ErrProvider):
		return http.StatusBadGateway, e.ErrProvider.Error()
	case errors.Is(err, e.ErrTimeout):
		return http.StatusGatewayTimeout, e.ErrTimeout.Error()
	case errors.Is(err, e.ErrIndexUnavailable):
		return http.StatusServiceUnavailable, e.ErrIndexUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents конвертирует строку вида "59.99" или "60" в центы (int64).
// Отклоняет отрицательные значения, больше двух знаков после запятой
// и цены за разумным пределом.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseSearchFilter собирает фильтр из полей формы. Пустой фильтр — nil.
func parseSearchFilter(r *http.Request) (*domain.SearchFilter, error) {
	filter := &domain.SearchFilter{
		Category:  strings.TrimSpace(r.FormValue("category")),
		Brand:     strings.TrimSpace(r.FormValue("brand")),
		Color:     strings.TrimSpace(r.FormValue("color")),
		Condition: strings.TrimSpace(r.FormValue("condition")),
	}

	if sources := strings.TrimSpace(r.FormValue("sources")); sources != "" {
		for _, src := range strings.Split(sources, ",") {
			if src = strings.TrimSpace(src); src != "" {
				filter.Sources = append(filter.Sources, src)
			}
		}
	}

	minPrice, err := parseOptionalPrice(r.FormValue("min_price"))
	if err != nil {
		return nil, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := parseOptionalPrice(r.FormValue("max_price"))
	if err != nil {
		return nil, err
	}
	filter.MaxPrice = maxPrice

	if filter.IsEmpty() {
		return nil, nil
	}
	return filter, nil
}

// parseOptionalPrice разбирает границу ценового фильтра в долларах.
func parseOptionalPrice(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || price < 0 {
		return nil, e.ErrInvalidPrice
	}

	return &price, nil
}

func parseLimit(s string) (uint64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil // лимит по умолчанию выбирает usecase
	}

	limit, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, e.ErrInvalidLimit
	}

	return limit, nil
}

func parseImages(files []*multipart.FileHeader) ([]usecase.ListingImage, error) {
	const (
		maxImageCount = 10
		maxFileSize   = 15 << 20
	)

	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ListingImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewListingImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
