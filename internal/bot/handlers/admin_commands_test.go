package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminCommands_DeniedForUsers(t *testing.T) {
	for _, name := range []string{"addadmin", "removeadmin", "listadmins", "admin"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, []int64{adminA})

			h.handle(command(userID, name, "42"))

			msg := h.bot.lastTo(t, userID)
			assert.Equal(t, h.render(userID, "admin_command_denied", nil), msg.Text)
			assert.NotZero(t, msg.ReplyToMessageID)
			assert.Equal(t, []int64{adminA}, h.deps.Admins.List())
		})
	}
}

func TestAddAdmin(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantKey   string
		wantParam map[string]any
		wantList  []int64
	}{
		{name: "no argument", args: "", wantKey: "addadmin_usage", wantList: []int64{adminA}},
		{name: "two arguments", args: "1 2", wantKey: "addadmin_usage", wantList: []int64{adminA}},
		{name: "not a number", args: "abc", wantKey: "addadmin_invalid_id", wantList: []int64{adminA}},
		{name: "negative", args: "-5", wantKey: "addadmin_invalid_id", wantList: []int64{adminA}},
		{
			name:      "already admin",
			args:      "1001",
			wantKey:   "addadmin_already_admin",
			wantParam: map[string]any{"admin_id": adminA},
			wantList:  []int64{adminA},
		},
		{
			name:      "added",
			args:      "1002",
			wantKey:   "addadmin_success",
			wantParam: map[string]any{"admin_id": adminB, "admin_count": 2},
			wantList:  []int64{adminA, adminB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, []int64{adminA})
			h.store.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()

			h.handle(command(adminA, "addadmin", tt.args))

			assert.Equal(t, h.render(adminA, tt.wantKey, tt.wantParam), h.bot.lastTo(t, adminA).Text)
			assert.Equal(t, tt.wantList, h.deps.Admins.List())
		})
	}
}

func TestAddAdmin_PersistsAndSyncsMenu(t *testing.T) {
	h := newHarness(t, []int64{adminA})
	h.store.On("Save", mock.Anything, []int64{adminA, adminB}).Return(nil).Once()

	h.handle(command(adminA, "addadmin", "1002"))

	h.store.AssertExpectations(t)
	menu, ok := h.bot.menuOf(adminB)
	require.True(t, ok)
	assert.Len(t, menu, 6)
}

func TestAddAdmin_PersistenceFailureKeepsChangeAndWarns(t *testing.T) {
	h := newHarness(t, []int64{adminA})
	h.store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk <full>")).Once()

	h.handle(command(adminA, "addadmin", "1002"))

	msgs := h.bot.messagesTo(adminA)
	require.Len(t, msgs, 2)
	assert.Equal(t, h.render(adminA, "addadmin_success", map[string]any{"admin_id": adminB, "admin_count": 2}), msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "disk &lt;full&gt;")
	assert.True(t, h.deps.Admins.Contains(adminB))
}

func TestRemoveAdmin(t *testing.T) {
	tests := []struct {
		name      string
		admins    []int64
		args      string
		wantKey   string
		wantParam map[string]any
		wantList  []int64
	}{
		{name: "usage", admins: []int64{adminA, adminB}, args: "", wantKey: "removeadmin_usage", wantList: []int64{adminA, adminB}},
		{name: "invalid", admins: []int64{adminA, adminB}, args: "x1", wantKey: "addadmin_invalid_id", wantList: []int64{adminA, adminB}},
		{
			name:      "not found",
			admins:    []int64{adminA, adminB},
			args:      "77",
			wantKey:   "removeadmin_not_found",
			wantParam: map[string]any{"admin_id": int64(77)},
			wantList:  []int64{adminA, adminB},
		},
		{name: "self", admins: []int64{adminA, adminB}, args: "1001", wantKey: "removeadmin_self", wantList: []int64{adminA, adminB}},
		{name: "self when alone", admins: []int64{adminA}, args: "1001", wantKey: "removeadmin_self", wantList: []int64{adminA}},
		{
			name:      "removed",
			admins:    []int64{adminA, adminB},
			args:      "1002",
			wantKey:   "removeadmin_success",
			wantParam: map[string]any{"admin_id": adminB, "admin_count": 1},
			wantList:  []int64{adminA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.admins)
			h.store.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()

			h.handle(command(adminA, "removeadmin", tt.args))

			assert.Equal(t, h.render(adminA, tt.wantKey, tt.wantParam), h.bot.lastTo(t, adminA).Text)
			assert.Equal(t, tt.wantList, h.deps.Admins.List())
		})
	}
}

func TestRemoveAdmin_RevokesMenu(t *testing.T) {
	h := newHarness(t, []int64{adminA, adminB})
	h.store.On("Save", mock.Anything, []int64{adminA}).Return(nil).Once()

	h.handle(command(adminA, "removeadmin", "1002"))

	menu, ok := h.bot.menuOf(adminB)
	require.True(t, ok)
	assert.Len(t, menu, 2)
}

func TestListAdminsAndAdminInfo(t *testing.T) {
	h := newHarness(t, []int64{adminA, adminB})

	h.handle(command(adminA, "listadmins", ""))
	assert.Equal(t,
		h.render(adminA, "listadmins", map[string]any{"admin_count": 2, "admin_ids": "1001, 1002"}),
		h.bot.lastTo(t, adminA).Text)

	h.handle(command(adminB, "admin", ""))
	assert.Equal(t,
		h.render(adminB, "admin_info_text", map[string]any{"user_id": adminB, "admin_count": 2, "admin_ids": "1001, 1002"}),
		h.bot.lastTo(t, adminB).Text)
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12345", 12345, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1e3", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseUserID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
