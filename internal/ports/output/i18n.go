package output

// T localizes report and notification labels.
type T interface {
	// T renders the message key in locale. data fills template placeholders
	// and may be nil. Unknown keys come back unchanged.
	T(locale, key string, data map[string]any) string
}
