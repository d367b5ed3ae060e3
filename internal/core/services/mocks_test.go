package services

import (
	"RelayBot/internal/core/ports"
	"context"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockBotClient is a mock for the BotClientPort
type MockBotClient struct {
	mock.Mock
}

var _ ports.BotClientPort = (*MockBotClient)(nil)

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}
func (m *MockBotClient) SendFile(ctx context.Context, params ports.SendFileParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}
func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context, chatID int64, commands []ports.BotCommand) error {
	args := m.Called(ctx, chatID, commands)
	return args.Error(0)
}
func (m *MockBotClient) Identity(ctx context.Context) (ports.BotIdentity, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.BotIdentity), args.Error(1)
}

// MockAdminStore
type MockAdminStore struct {
	mock.Mock
}

var _ ports.AdminStore = (*MockAdminStore)(nil)

func (m *MockAdminStore) Load(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockAdminStore) Save(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// mapLocalizer is a fixed in-memory string table.
type mapLocalizer map[string]map[string]string

var _ ports.Localizer = mapLocalizer(nil)

func (l mapLocalizer) Lookup(lang, key string) (string, bool) {
	s, ok := l[lang][key]
	return s, ok
}
func (l mapLocalizer) Languages() []string {
	out := make([]string, 0, len(l))
	for k := range l {
		out = append(out, k)
	}
	return out
}

// staticLanguages maps users to languages; everyone else reads "en".
type staticLanguages map[int64]string

func (s staticLanguages) Language(userID int64) string {
	if l, ok := s[userID]; ok {
		return l
	}
	return "en"
}

func testLocalizer() mapLocalizer {
	return mapLocalizer{
		"en": {
			"file_received": "New file from @{username} ({full_name}, {user_id}): {file_name} at {time}",
			"text_received": "Text from @{username}: {text}",
			"file_size":     "Size: {size}",
			"greeting":      "Hello, {name}!",
			"only_en":       "english only",
		},
		"ru": {
			"file_received": "Новый файл от @{username}: {file_name}",
			"text_received": "Текст от @{username}: {text}",
			"file_size":     "Размер: {size}",
			"greeting":      "Привет, {name}!",
		},
	}
}
