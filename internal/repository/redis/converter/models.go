package converter

type ItemInfoRedisModel struct {
	ID          int64   `json:"id"`
	Source      string  `json:"source"`
	ExternalID  string  `json:"external_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       *int64  `json:"price,omitempty"`
	Currency    string  `json:"currency"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Brand       *string `json:"brand,omitempty"`
	Category    *string `json:"category,omitempty"`
	Color       *string `json:"color,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	Size        *string `json:"size,omitempty"`
}
