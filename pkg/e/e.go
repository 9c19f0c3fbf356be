package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки эмбеддингов и векторов
	ErrInvalidInput      = fmt.Errorf("image or non-empty text is required")
	ErrDecode            = fmt.Errorf("image bytes are not a valid raster image")
	ErrConfiguration     = fmt.Errorf("embedding provider is not configured")
	ErrProvider          = fmt.Errorf("embedding provider call failed")
	ErrUnsupportedInput  = fmt.Errorf("input mode is not supported by the provider")
	ErrDimensionMismatch = fmt.Errorf("vector dimension mismatch")
	ErrDegenerateFusion  = fmt.Errorf("fused vector has near-zero norm")
	ErrTimeout           = fmt.Errorf("external call timed out")
	ErrEmptyVector       = fmt.Errorf("vector embedding is empty")

	// Ошибки поискового индекса
	ErrIndexUnavailable = fmt.Errorf("similarity index query failed")

	// 400 Bad Request
	ErrItemSourceRequired   = fmt.Errorf("item source is required")
	ErrExternalIDRequired   = fmt.Errorf("item external id is required")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidLimit         = fmt.Errorf("limit must be between 1 and 100")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrStatusBadRequest     = fmt.Errorf("bad request")

	// 5xx
	ErrInternalServerError = fmt.Errorf("internal server error")

	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
