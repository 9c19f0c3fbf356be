// Package deeplink строит платформенные deep-link ссылки на объявления.
package deeplink

import "strings"

// Плейсхолдер external_id в шаблоне ссылки.
const idPlaceholder = "{id}"

// defaultTemplates — встроенная таблица маркетплейсов.
// Depop открывается нативным приложением, остальные — веб-ссылками.
var defaultTemplates = map[string]string{
	"depop":   "depop://product/{id}",
	"grailed": "https://www.grailed.com/listings/{id}",
	"vinted":  "https://www.vinted.com/items/{id}",
}

// Resolver отображает (source, external_id) в конечную ссылку.
type Resolver struct {
	templates map[string]string
}

// NewResolver создаёт резолвер из встроенной таблицы с применёнными переопределениями.
func NewResolver(overrides map[string]string) *Resolver {
	templates := make(map[string]string, len(defaultTemplates)+len(overrides))
	for source, template := range defaultTemplates {
		templates[source] = template
	}
	for source, template := range overrides {
		templates[source] = template
	}

	return &Resolver{templates: templates}
}

// Resolve возвращает deep-link для объявления. Для маркетплейса без шаблона
// или объявления без external_id возвращается каноническая ссылка без изменений.
func (r *Resolver) Resolve(source, externalID, canonicalURL string) string {
	if externalID == "" {
		return canonicalURL
	}

	template, ok := r.templates[strings.ToLower(source)]
	if !ok {
		return canonicalURL
	}

	return strings.ReplaceAll(template, idPlaceholder, externalID)
}
