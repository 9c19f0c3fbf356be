package domain

// SearchFilter — конъюнкция предикатов по атрибутам объявления.
// Нулевые поля означают отсутствие предиката.
type SearchFilter struct {
	Category  string
	Brand     string // подстрочное совпадение
	Color     string
	MinPrice  *float64 // в долларах
	MaxPrice  *float64
	Sources   []string
	Condition string
}

// IsEmpty сообщает, что ни один предикат не задан.
func (f *SearchFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Category == "" && f.Brand == "" && f.Color == "" &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		len(f.Sources) == 0 && f.Condition == ""
}
