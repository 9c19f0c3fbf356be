// Package jitter размазывает интервалы повторов по времени, чтобы повторные
// попытки разных горутин не били по внешнему сервису одновременно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — коэффициент джиттера по умолчанию (50%).
const DefaultJitter = 0.5

// Duration добавляет к d случайную надбавку.
// Результат лежит в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return d + time.Duration(rand.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff считает паузу перед attempt-й попыткой (с нуля):
// base удваивается на каждую попытку, ограничивается max и получает джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}
	return Duration(backoff, jitterFactor)
}
