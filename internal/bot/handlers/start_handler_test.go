package handlers

import (
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/ports"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminA int64 = 1001
	adminB int64 = 1002
	userID int64 = 5555
)

func TestStart_FirstContactAsksForLanguage(t *testing.T) {
	// 1. Setup
	h := newHarness(t, []int64{adminA})

	// 2. Run
	h.handle(command(userID, "start", ""))

	// 3. Assert
	msg := h.bot.lastTo(t, userID)
	assert.Equal(t, h.render(userID, "choose_language", nil), msg.Text)
	assert.Equal(t, ports.ParseModeHTML, msg.ParseMode)
	assert.ElementsMatch(t, []string{"lang_en", "lang_ru"}, buttonData(msg.ReplyMarkup))
	assert.True(t, h.deps.Sessions.Exists(userID))
}

func TestStart_ReturningUserGetsWelcome(t *testing.T) {
	h := newHarness(t, []int64{adminA})
	h.handle(command(userID, "start", ""))

	h.handle(command(userID, "help", ""))

	msg := h.bot.lastTo(t, userID)
	assert.Equal(t, h.render(userID, "welcome", nil)+"\n\n"+h.render(userID, "choose_action", nil), msg.Text)
	assert.Equal(t, []string{
		messages.CallbackDownloadNicegram,
		messages.CallbackCheckRefund,
		messages.CallbackInstruction,
		messages.CallbackChangeLanguage,
	}, buttonData(msg.ReplyMarkup))
}

func TestStart_WelcomePhoto(t *testing.T) {
	// 1. Setup: a welcome photo on disk
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	h := newHarness(t, []int64{adminA}, withWelcomePhoto(path))
	h.deps.Sessions.SetLanguage(adminA, "en")

	// 2. Run
	h.handle(command(adminA, "start", ""))

	// 3. Assert
	require.Len(t, h.bot.files, 1)
	file := h.bot.files[0]
	assert.Equal(t, ports.FilePhoto, file.Kind)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, h.render(adminA, "photo_caption", nil), file.Caption)
	assert.Contains(t, buttonData(file.ReplyMarkup), messages.CallbackAdminMenu)
	assert.Empty(t, h.bot.messagesTo(adminA))
}

func TestStart_WelcomePhotoFailureFallsBackToText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	h := newHarness(t, []int64{adminA}, withWelcomePhoto(path))
	h.bot.failFile = true
	h.deps.Sessions.SetLanguage(userID, "en")

	h.handle(command(userID, "start", ""))

	msg := h.bot.lastTo(t, userID)
	assert.Contains(t, msg.Text, h.render(userID, "welcome", nil))
}

func TestStart_AdminGetsAdminMenuCommands(t *testing.T) {
	h := newHarness(t, []int64{adminA})

	h.handle(command(adminA, "start", ""))
	h.handle(command(userID, "start", ""))

	menu, ok := h.bot.menuOf(adminA)
	require.True(t, ok)
	var names []string
	for _, c := range menu {
		names = append(names, c.Command)
		assert.NotEmpty(t, c.Description)
	}
	assert.Equal(t, []string{"start", "status", "admin", "listadmins", "addadmin", "removeadmin"}, names)

	_, ok = h.bot.menuOf(userID)
	assert.False(t, ok, "regular users keep the default menu")
}

func TestSetDefaultMenu(t *testing.T) {
	h := newHarness(t, []int64{adminA})

	require.NoError(t, SetDefaultMenu(t.Context(), h.deps))

	menu, ok := h.bot.menuOf(0)
	require.True(t, ok)
	require.Len(t, menu, 2)
	assert.Equal(t, "start", menu[0].Command)
	assert.Equal(t, h.deps.Renderer.Render("en", "cmd_status", nil), menu[1].Description)
}
