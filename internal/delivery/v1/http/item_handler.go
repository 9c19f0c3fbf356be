package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
)

type ItemHandler struct {
	ingestUsecase usecase.IngestUC
	logger        logger.Logger
}

func NewItemHandler(ingestUsecase usecase.IngestUC, logger logger.Logger) *ItemHandler {
	return &ItemHandler{ingestUsecase: ingestUsecase, logger: logger}
}

// ingestItem
//
//	@Summary		Загрузка объявления в каталог
//	@Description	Идемпотентно создаёт или обновляет объявление, векторизует его и добавляет в поисковый индекс
//	@Tags			items
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			source		formData	string	true	"Маркетплейс (depop, grailed, vinted)"
//	@Param			external_id	formData	string	true	"ID объявления на маркетплейсе"
//	@Param			title		formData	string	false	"Заголовок"
//	@Param			description	formData	string	false	"Описание"
//	@Param			price		formData	number	false	"Цена"
//	@Param			currency	formData	string	false	"Валюта"
//	@Param			url			formData	string	false	"Каноническая ссылка"
//	@Param			image_url	formData	string	false	"Ссылка на превью"
//	@Param			brand		formData	string	false	"Бренд"
//	@Param			category	formData	string	false	"Категория"
//	@Param			color		formData	string	false	"Цвет"
//	@Param			condition	formData	string	false	"Состояние"
//	@Param			size		formData	string	false	"Размер"
//	@Param			images		formData	file	false	"Фотографии объявления"
//	@Success		201			{object}	map[string]interface{}	"Объявление проиндексировано"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/items [post]
func (h *ItemHandler) ingestItem(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := h.parseItemForm(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		// объявление без фото допустимо, если у него есть текст
		if !errors.Is(err, e.ErrNoImages) {
			h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
	}
	req.Images = images

	event, err := h.ingestUsecase.IngestItem(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	// nil-событие — повторная загрузка без изменений: переиндексация не выполнялась
	if event != nil {
		WriteSuccess(w, http.StatusCreated, map[string]interface{}{
			"EventID": event.EventID,
		})
	} else {
		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"Changed": false,
		})
	}
}

func (h *ItemHandler) parseItemForm(r *http.Request) (*usecase.IngestItemReq, error) {
	source := strings.TrimSpace(r.FormValue("source"))
	externalID := strings.TrimSpace(r.FormValue("external_id"))

	if source == "" {
		return nil, e.ErrItemSourceRequired
	}
	if externalID == "" {
		return nil, e.ErrExternalIDRequired
	}

	req := &usecase.IngestItemReq{
		Source:      source,
		ExternalID:  externalID,
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Currency:    strings.TrimSpace(r.FormValue("currency")),
		URL:         strings.TrimSpace(r.FormValue("url")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Brand:       optionalFormValue(r, "brand"),
		Category:    optionalFormValue(r, "category"),
		Color:       optionalFormValue(r, "color"),
		Condition:   optionalFormValue(r, "condition"),
		Size:        optionalFormValue(r, "size"),
	}

	if priceStr := strings.TrimSpace(r.FormValue("price")); priceStr != "" {
		cents, err := parsePriceToCents(priceStr)
		if err != nil {
			return nil, err
		}
		req.Price = &cents
	}

	return req, nil
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
