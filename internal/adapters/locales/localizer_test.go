package locales

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedTables(t *testing.T) {
	l, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "ru"}, l.Languages())

	s, ok := l.Lookup("en", "file_size")
	require.True(t, ok)
	assert.Equal(t, "📦 File size: {size}", s)

	_, ok = l.Lookup("de", "file_size")
	assert.False(t, ok)
	_, ok = l.Lookup("en", "no_such_key")
	assert.False(t, ok)
}

func TestLoad_TablesHaveSameKeys(t *testing.T) {
	l, err := Load()
	require.NoError(t, err)

	en, ru := l.tables["en"], l.tables["ru"]
	for k := range en {
		_, ok := ru[k]
		assert.True(t, ok, "ru is missing %q", k)
	}
	for k := range ru {
		_, ok := en[k]
		assert.True(t, ok, "en is missing %q", k)
	}
}

func TestLoad_KeysUsedByTheBot(t *testing.T) {
	l, err := Load()
	require.NoError(t, err)

	keys := []string{
		"file_received", "text_received", "file_size", "check_started",
		"check_success", "check_warning", "check_failed", "unsupported_file",
		"no_admins", "file_error", "file_sent", "text_sent", "verification_busy",
		"admin_persist_warning", "status_none", "status_in_progress",
	}
	for _, lang := range l.Languages() {
		for _, k := range keys {
			_, ok := l.Lookup(lang, k)
			assert.True(t, ok, "%s: missing %q", lang, k)
		}
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"de.yaml": {Data: []byte("greeting: \"Hallo, {name}!\"\n")},
	}

	l, err := LoadFS(fsys)
	require.NoError(t, err)

	s, ok := l.Lookup("de", "greeting")
	assert.True(t, ok)
	assert.Equal(t, "Hallo, {name}!", s)
	assert.True(t, l.Has("de"))
}

func TestLoadFS_Errors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{})
	assert.Error(t, err)

	_, err = LoadFS(fstest.MapFS{"en.yaml": {Data: []byte("key: [unclosed")}})
	assert.Error(t, err)
}
