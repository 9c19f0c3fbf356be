package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// allClosed возвращается из gracefulClose, когда все ресурсы закрылись штатно.
const allClosed = -1

// CloseFunc — функция освобождения одного ресурса.
type CloseFunc func(ctx context.Context) error

// Closer накапливает функции закрытия ресурсов и при завершении приложения
// запускает их в обратном порядке регистрации.
type Closer struct {
	funcs         []CloseFunc
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

// NewCloser создает Closer. forcedTimeout ограничивает принудительное закрытие
// ресурсов, не успевших закрыться до отмены контекста в Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout == 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
	}
}

// Add регистрирует функцию закрытия. Порядок регистрации важен: закрытие идёт LIFO.
func (c *Closer) Add(f CloseFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// Close запускает закрытие всех зарегистрированных ресурсов (LIFO).
// При отмене контекста оставшиеся ресурсы закрываются принудительно,
// параллельно и с собственным таймаутом.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, funcs)
		if stopIdx == allClosed {
			if len(errs) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errs, "\n"))
			}

			return
		}

		remaining := funcs[:stopIdx+1]
		errs = append(errs, c.forcedClose(remaining)...)

		err = fmt.Errorf(
			"shutdown interrupted after %d/%d funcs:\n%s",
			len(funcs)-1-stopIdx,
			len(funcs),
			strings.Join(errs, "\n"),
		)
	})

	return err
}

// gracefulClose обходит функции с конца. При отмене контекста возвращает
// индекс, на котором остановился, и накопленные ошибки.
func (c *Closer) gracefulClose(ctx context.Context, funcs []CloseFunc) (int, []string) {
	var errs []string
	for i := len(funcs) - 1; i >= 0; i-- {
		done := make(chan error, 1)
		f := funcs[i]

		go func() {
			done <- f(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Sprintf("[!] %v", err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}

	return allClosed, errs
}

// forcedClose параллельно закрывает оставшиеся ресурсы с таймаутом forcedTimeout.
func (c *Closer) forcedClose(funcs []CloseFunc) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("[FORCED] %v", err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
