// Package i18n resolves user-facing text from embedded YAML catalogs.
//
// Catalogs are grouped into independent namespaces. The onboarding quiz
// ("quiz") is offered in en, es, fr and sw. The rest of the interface
// ("app") is offered in en, es, fr and ar. The two language sets are kept
// apart on purpose and are never merged.
//
// Lookup falls back from the requested language to English and finally to
// the raw key, so a missing translation shows up as visible placeholder text.
package i18n
