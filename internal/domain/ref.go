package domain

import "strings"

// Ссылочные поля достались от миграции данных в двух представлениях:
// «сырой» идентификатор ("66f1...") и типизированная legacy-форма
// (`ObjectId("66f1...")`). Любое сравнение или выборка по ссылке обязаны
// учитывать оба варианта, иначе проверка целостности даст ложный allow.

const (
	typedRefPrefix = `ObjectId("`
	typedRefSuffix = `")`
)

// NormalizeRef приводит ссылку к «сырому» идентификатору.
func NormalizeRef(ref string) string {
	if strings.HasPrefix(ref, typedRefPrefix) && strings.HasSuffix(ref, typedRefSuffix) {
		return ref[len(typedRefPrefix) : len(ref)-len(typedRefSuffix)]
	}
	return ref
}

// TypedRef оборачивает идентификатор в legacy-форму.
func TypedRef(id string) string {
	return typedRefPrefix + id + typedRefSuffix
}

// RefForms возвращает оба допустимых представления идентификатора
// для membership-запросов вида IN (...).
func RefForms(id string) []string {
	id = NormalizeRef(id)
	return []string{id, TypedRef(id)}
}

// RefFormsAll разворачивает набор идентификаторов во все представления.
func RefFormsAll(ids []string) []string {
	forms := make([]string, 0, len(ids)*2)
	for _, id := range ids {
		forms = append(forms, RefForms(id)...)
	}
	return forms
}

// SameRef сравнивает две ссылки с учётом нормализации.
func SameRef(a, b string) bool {
	return NormalizeRef(a) == NormalizeRef(b)
}
