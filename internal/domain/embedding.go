package domain

import "time"

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет эмбеддинг одного объявления
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// NewItemPayload собирает payload точки индекса: идентификация объявления
// плюс фильтруемые атрибуты. Цена кладётся в долларах (float) для range-фильтра.
func NewItemPayload(item *Item, imagePath string, modelVersion string) Payload {
	payload := Payload{
		"item_id":       item.ID,
		"source":        item.Source,
		"external_id":   item.ExternalID,
		"image_path":    imagePath,
		"created_at":    time.Now().UTC().UnixNano(),
		"model_version": modelVersion,
	}

	if item.Price != nil {
		payload["price"] = float64(*item.Price) / 100
	}
	if item.Category != nil {
		payload["category"] = *item.Category
	}
	if item.Brand != nil {
		payload["brand"] = *item.Brand
	}
	if item.Color != nil {
		payload["color"] = *item.Color
	}
	if item.Condition != nil {
		payload["condition"] = *item.Condition
	}

	return payload
}

// Neighbor — результат запроса ближайших соседей: объявление и его
// косинусное расстояние до вектора запроса.
type Neighbor struct {
	ItemID     int64
	Source     string
	ExternalID string
	Distance   float64
}
