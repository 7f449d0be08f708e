package models

// PublishEvent is the envelope the CMS posts to webhooks when an entry
// is published. Field values are keyed by locale code.
type PublishEvent struct {
	Sys    Sys                       `json:"sys"`
	Fields map[string]map[string]any `json:"fields"`
}

// FlattenFields projects the multi-locale field map down to the values
// of a single locale. Fields without a value for the locale map to nil.
func (e PublishEvent) FlattenFields(locale string) map[string]any {
	flat := make(map[string]any, len(e.Fields))
	for name, locales := range e.Fields {
		flat[name] = locales[locale]
	}
	return flat
}
