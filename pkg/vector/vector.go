// Package vector содержит операции над embedding-векторами: приведение размерности,
// нормализацию и слияние мультимодальных представлений.
package vector

import (
	"math"

	"github.com/find-this-fit/go-backend/pkg/e"
)

// degenerateNorm — порог, ниже которого норма усреднённого вектора считается вырожденной.
const degenerateNorm = 1e-6

// Norm возвращает L2-норму вектора.
func Norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Normalize приводит вектор к единичной длине.
// Нулевой вектор возвращается без изменений.
func Normalize(vec []float32) []float32 {
	norm := Norm(vec)
	if norm == 0 {
		return vec
	}

	result := make([]float32, len(vec))
	for i, v := range vec {
		result[i] = float32(float64(v) / norm)
	}
	return result
}

// EnsureDimension приводит вектор к размерности target.
// Совпадающая размерность возвращается как есть. Более длинный вектор усекается
// до первых target компонент и заново нормализуется: усечение единичного вектора
// нарушает инвариант единичной длины, на который опирается косинусный индекс.
// Более короткий вектор дополняется нулями справа (норма при этом не меняется).
func EnsureDimension(vec []float32, target int) []float32 {
	if target < 0 {
		target = 0
	}

	switch {
	case len(vec) == target:
		return vec
	case len(vec) > target:
		return Normalize(vec[:target])
	default:
		padded := make([]float32, target)
		copy(padded, vec)
		return padded
	}
}

// Fuse объединяет два единичных вектора одинаковой размерности в одно мультимодальное
// представление: поэлементное среднее, заново нормированное к единичной длине.
// Возвращает e.ErrDimensionMismatch при разной размерности и e.ErrDegenerateFusion,
// если векторы почти противоположны и среднее вырождается в ноль.
func Fuse(a, b []float32) ([]float32, error) {
	if len(a) != len(b) {
		return nil, e.ErrDimensionMismatch
	}

	mean := make([]float32, len(a))
	for i := range a {
		mean[i] = (a[i] + b[i]) / 2
	}

	if Norm(mean) < degenerateNorm {
		return nil, e.ErrDegenerateFusion
	}

	return Normalize(mean), nil
}

// CosineSimilarity возвращает косинусное сходство двух векторов в диапазоне [-1, 1].
// Для векторов разной длины или нулевой нормы возвращает 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance возвращает косинусное расстояние: 1 - сходство, диапазон [0, 2].
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}
