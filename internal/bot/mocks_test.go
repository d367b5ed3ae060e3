package bot

import (
	"RelayBot/internal/core/ports"
	"context"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockCommandHandler
type MockCommandHandler struct {
	mock.Mock
}

func (m *MockCommandHandler) Command() string {
	args := m.Called()
	return args.String(0)
}
func (m *MockCommandHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockCallbackHandler
type MockCallbackHandler struct {
	mock.Mock
}

func (m *MockCallbackHandler) Prefix() string {
	args := m.Called()
	return args.String(0)
}
func (m *MockCallbackHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockInputHandler
type MockInputHandler struct {
	mock.Mock
}

func (m *MockInputHandler) Awaits() string {
	args := m.Called()
	return args.String(0)
}
func (m *MockInputHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockMessageHandler is a mock "plugin" for text and files
type MockMessageHandler struct {
	mock.Mock
}

func (m *MockMessageHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

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

// mapLocalizer is a fixed in-memory string table.
type mapLocalizer map[string]map[string]string

func (l mapLocalizer) Lookup(lang, key string) (string, bool) {
	s, ok := l[lang][key]
	return s, ok
}
func (l mapLocalizer) Languages() []string {
	return []string{"en"}
}
