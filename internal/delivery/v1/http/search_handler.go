package http

import (
	"net/http"
	"strings"

	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
)

type SearchHandler struct {
	searchUsecase usecase.SearchUC
	logger        logger.Logger
}

func NewSearchHandler(searchUsecase usecase.SearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase, logger: logger}
}

type searchResultResponse struct {
	ItemID      int64    `json:"item_id"`
	Source      string   `json:"source"`
	ExternalID  string   `json:"external_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Size        *string  `json:"size,omitempty"`
	Distance    float64  `json:"distance"`
	Similarity  float64  `json:"similarity"`
	RedirectURL string   `json:"redirect_url"`
}

type searchResponse struct {
	Results []searchResultResponse `json:"results"`
	Total   int                    `json:"total"`
}

type filterOptionsResponse struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Colors     []string `json:"colors"`
	Conditions []string `json:"conditions"`
	Sources    []string `json:"sources"`
}

// searchSimilar
//
//	@Summary		Поиск похожих объявлений
//	@Description	Принимает фото и/или текст, возвращает визуально и семантически похожие объявления с deep-link ссылками
//	@Tags			search
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	false	"Фото вещи"
//	@Param			text		formData	string	false	"Текстовое описание"
//	@Param			category	formData	string	false	"Фильтр по категории"
//	@Param			brand		formData	string	false	"Фильтр по бренду (подстрока)"
//	@Param			color		formData	string	false	"Фильтр по цвету"
//	@Param			condition	formData	string	false	"Фильтр по состоянию"
//	@Param			sources		formData	string	false	"Маркетплейсы через запятую"
//	@Param			min_price	formData	number	false	"Минимальная цена"
//	@Param			max_price	formData	number	false	"Максимальная цена"
//	@Param			limit		formData	integer	false	"Размер выдачи"
//	@Success		200			{object}	searchResponse	"Результаты поиска"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		422			{object}	ErrorResponse	"Неподдерживаемая комбинация модальностей"
//	@Failure		502			{object}	ErrorResponse	"Сбой провайдера эмбеддингов"
//	@Failure		503			{object}	ErrorResponse	"Индекс недоступен"
//	@Router			/search [post]
func (s *SearchHandler) searchSimilar(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxImageSize        = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	var image []byte
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		data, _, err := readFile(files[0], maxImageSize)
		if err != nil {
			s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
		image = data
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if len(image) == 0 && text == "" {
		WriteError(w, e.ErrInvalidInput)
		return
	}

	filter, err := parseSearchFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	limit, err := parseLimit(r.FormValue("limit"))
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := s.searchUsecase.SearchSimilar(r.Context(), &usecase.SearchReq{
		Image:  image,
		Text:   text,
		Filter: filter,
		Limit:  limit,
	})
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSearchResponse(res))
}

// getFilterOptions
//
//	@Summary		Доступные значения фильтров
//	@Description	Возвращает фактически встречающиеся категории, бренды, цвета, состояния и маркетплейсы
//	@Tags			search
//	@Produce		json
//	@Success		200	{object}	filterOptionsResponse
//	@Router			/search/filters [get]
func (s *SearchHandler) getFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.searchUsecase.GetFilterOptions(r.Context())
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, filterOptionsResponse{
		Categories: options.Categories,
		Brands:     options.Brands,
		Colors:     options.Colors,
		Conditions: options.Conditions,
		Sources:    options.Sources,
	})
}

func toSearchResponse(res *usecase.SearchRes) searchResponse {
	results := make([]searchResultResponse, 0, len(res.Items))
	for _, item := range res.Items {
		var price *float64
		if item.Price != nil {
			dollars := float64(*item.Price) / 100
			price = &dollars
		}

		results = append(results, searchResultResponse{
			ItemID:      item.ItemID,
			Source:      item.Source,
			ExternalID:  item.ExternalID,
			Title:       item.Title,
			Description: item.Description,
			Price:       price,
			Currency:    item.Currency,
			URL:         item.URL,
			ImageURL:    item.ImageURL,
			Brand:       item.Brand,
			Category:    item.Category,
			Color:       item.Color,
			Condition:   item.Condition,
			Size:        item.Size,
			Distance:    item.Distance,
			Similarity:  item.Similarity,
			RedirectURL: item.RedirectURL,
		})
	}

	return searchResponse{
		Results: results,
		Total:   len(results),
	}
}
