package telegram

import (
	"RelayBot/internal/core/ports"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// tgClient implements the BotClientPort.
type tgClient struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

var _ ports.BotClientPort = (*tgClient)(nil)

// NewClient creates a new Telegram client adapter.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	log := baseLogger.With().Str("component", "tg_client").Logger()
	return &tgClient{api: api, log: log}
}

// SendMessage translates our params into a tgbotapi message.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	msg.ReplyToMessageID = params.ReplyToMessageID
	msg.AllowSendingWithoutReply = params.ReplyToMessageID != 0
	if params.ReplyMarkup != nil {
		msg.ReplyMarkup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return 0, err
	}
	return sent.MessageID, nil
}

// SendFile re-sends a file by handle, or uploads a local file when no
// handle is given.
func (c *tgClient) SendFile(ctx context.Context, params ports.SendFileParams) (int, error) {
	var file tgbotapi.RequestFileData
	switch {
	case params.FileID != "":
		file = tgbotapi.FileID(params.FileID)
	case params.Path != "":
		file = tgbotapi.FilePath(params.Path)
	default:
		return 0, fmt.Errorf("send %s: no file handle or path", params.Kind)
	}

	var markup any
	if params.ReplyMarkup != nil {
		markup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	var chattable tgbotapi.Chattable
	switch params.Kind {
	case ports.FilePhoto:
		cfg := tgbotapi.NewPhoto(params.ChatID, file)
		cfg.Caption, cfg.ParseMode, cfg.ReplyMarkup = params.Caption, params.ParseMode, markup
		chattable = cfg
	case ports.FileVideo:
		cfg := tgbotapi.NewVideo(params.ChatID, file)
		cfg.Caption, cfg.ParseMode, cfg.ReplyMarkup = params.Caption, params.ParseMode, markup
		chattable = cfg
	case ports.FileAudio:
		cfg := tgbotapi.NewAudio(params.ChatID, file)
		cfg.Caption, cfg.ParseMode, cfg.ReplyMarkup = params.Caption, params.ParseMode, markup
		chattable = cfg
	case ports.FileDocument, "":
		cfg := tgbotapi.NewDocument(params.ChatID, file)
		cfg.Caption, cfg.ParseMode, cfg.ReplyMarkup = params.Caption, params.ParseMode, markup
		chattable = cfg
	default:
		return 0, fmt.Errorf("unsupported file kind %q", params.Kind)
	}

	sent, err := c.api.Send(chattable)
	if err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Str("kind", string(params.Kind)).
			Msg("Failed to send file")
		return 0, err
	}
	return sent.MessageID, nil
}

// buildInlineKeyboard is a helper to create the inline keyboard.
func buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, buttonRow := range buttons {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttonRow))
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SetMenuCommands sets the bot's /menu commands.
func (c *tgClient) SetMenuCommands(ctx context.Context, chatID int64, commands []ports.BotCommand) error {
	tgCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		tgCommands = append(tgCommands, tgbotapi.BotCommand{Command: cmd.Command, Description: cmd.Description})
	}

	config := tgbotapi.NewSetMyCommands(tgCommands...)
	if chatID != 0 {
		config = tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID), tgCommands...)
	}
	if _, err := c.api.Request(config); err != nil {
		c.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

// AnswerCallbackQuery sends a response to a callback query (stops the spinner)
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	callbackConfig := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	callbackConfig.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(callbackConfig); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}

// Identity re-validates the token with getMe.
func (c *tgClient) Identity(ctx context.Context) (ports.BotIdentity, error) {
	me, err := c.api.GetMe()
	if err != nil {
		return ports.BotIdentity{}, fmt.Errorf("getMe: %w", err)
	}
	return ports.BotIdentity{ID: me.ID, UserName: me.UserName}, nil
}
