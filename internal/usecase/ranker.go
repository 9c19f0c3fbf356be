package usecase

// normalizeSimilarities переводит отсортированные по возрастанию расстояния
// в batch-relative оценки близости: similarity_i = 1 - d_i / max_d.
// Оценка равна 0 для самого дальнего элемента этой выдачи и стремится к 1 для
// ближайшего; между разными запросами оценки несравнимы. При пустой выдаче или
// нулевом максимуме делитель заменяется единицей, чтобы не делить на ноль.
func normalizeSimilarities(distances []float64) []float64 {
	if len(distances) == 0 {
		return nil
	}

	maxDistance := 0.0
	for _, d := range distances {
		if d > maxDistance {
			maxDistance = d
		}
	}
	if maxDistance == 0 {
		maxDistance = 1.0
	}

	similarities := make([]float64, len(distances))
	for i, d := range distances {
		s := 1 - d/maxDistance
		// расстояния приходят из приближённого индекса, страхуемся от выхода за [0, 1]
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		similarities[i] = s
	}

	return similarities
}
