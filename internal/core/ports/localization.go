package ports

// Localizer is the backing store for rendered notifications.
type Localizer interface {
	// Lookup returns the raw template for key in lang.
	Lookup(lang, key string) (string, bool)

	// Languages lists the language codes that have a table.
	Languages() []string
}
