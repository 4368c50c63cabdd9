package botstate

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/telebot-pro/internal/common"
)

// seqIDs возвращает генератор "prefix-1", "prefix-2", ...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestNewUniqueIDFormat(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewUniqueID(now)
	assert.Regexp(t, `^TBP-1700000000123-[0-9a-z]{5}$`, id)
}

func TestGetOrCreateManagedUserIsIdempotent(t *testing.T) {
	gen := seqIDs("TBP")
	s := NewBotState()

	first, s := GetOrCreateManagedUser(s, User{ID: "1", Username: "alice"}, gen)
	second, s := GetOrCreateManagedUser(s, User{ID: "1", Username: "renamed"}, gen)

	assert.Equal(t, first.UniqueID, second.UniqueID)
	assert.Equal(t, "alice", second.Username, "existing record must not be overwritten")
	require.Len(t, s.ManagedUsers, 1)
	assert.Equal(t, 0, s.ManagedUsers[0].Warnings)
	assert.False(t, s.ManagedUsers[0].IsBanned)
	assert.False(t, s.ManagedUsers[0].IsScammer)
}

func TestGetOrCreateManagedUserAvoidsCollisions(t *testing.T) {
	ids := []string{"TBP-same", "TBP-same", "TBP-other"}
	i := 0
	gen := func() string {
		id := ids[i]
		i++
		return id
	}

	s := NewBotState()
	_, s = GetOrCreateManagedUser(s, User{ID: "1", Username: "a"}, gen)
	_, s = GetOrCreateManagedUser(s, User{ID: "2", Username: "b"}, gen)

	require.Len(t, s.ManagedUsers, 2)
	assert.Equal(t, "TBP-same", s.ManagedUsers[0].UniqueID)
	assert.Equal(t, "TBP-other", s.ManagedUsers[1].UniqueID)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	s := NewBotState()
	s, err := AddCommand(s, CustomCommand{Command: "a", Response: "x"}, "c1")
	require.NoError(t, err)

	before := s.Clone()
	_ = RemoveCommand(s, "c1")
	_, _ = AddWarning(s, "nobody")
	_ = SetToken(s, "t")

	assert.Equal(t, before, s)
}

func TestAddWarningThreshold(t *testing.T) {
	s := NewBotState()
	s, err := AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("u"))
	require.NoError(t, err)

	s, banned := AddWarning(s, "1")
	assert.False(t, banned)
	assert.False(t, s.ManagedUsers[0].IsBanned)

	s, banned = AddWarning(s, "1")
	assert.False(t, banned)
	assert.Equal(t, 2, s.ManagedUsers[0].Warnings)
	assert.False(t, s.ManagedUsers[0].IsBanned)

	s, banned = AddWarning(s, "1")
	assert.True(t, banned)
	assert.Equal(t, 3, s.ManagedUsers[0].Warnings)
	assert.True(t, s.ManagedUsers[0].IsBanned)
}

func TestModerationOnUnknownUserIsNoop(t *testing.T) {
	s := NewBotState()
	s, err := AddModerator(s, User{ID: "1", Username: "bob"}, seqIDs("u"))
	require.NoError(t, err)

	next, banned := AddWarning(s, "404")
	assert.False(t, banned)
	assert.Equal(t, s, next)
	assert.Equal(t, s, PardonUser(s, "404"))
	assert.Equal(t, s, ToggleScammerStatus(s, "404"))
	assert.Equal(t, s, ManualBan(s, "404"))
}

func TestPardonResetsFully(t *testing.T) {
	s := NewBotState()
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("u"))
	s, _ = AddWarning(s, "1")
	s = ManualBan(s, "1")

	s = PardonUser(s, "1")
	assert.Equal(t, 0, s.ManagedUsers[0].Warnings)
	assert.False(t, s.ManagedUsers[0].IsBanned)
}

func TestManualBanKeepsWarnings(t *testing.T) {
	s := NewBotState()
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("u"))
	s, _ = AddWarning(s, "1")

	s = ManualBan(s, "1")
	assert.True(t, s.ManagedUsers[0].IsBanned)
	assert.Equal(t, 1, s.ManagedUsers[0].Warnings)
}

func TestToggleScammerStatus(t *testing.T) {
	s := NewBotState()
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("u"))

	s = ToggleScammerStatus(s, "1")
	assert.True(t, s.ManagedUsers[0].IsScammer)
	s = ToggleScammerStatus(s, "1")
	assert.False(t, s.ManagedUsers[0].IsScammer)
}

func TestCommandPrefixNormalization(t *testing.T) {
	s := NewBotState()
	s, err := AddCommand(s, CustomCommand{Command: "hello", Response: "hi"}, "1")
	require.NoError(t, err)
	s, err = AddCommand(s, CustomCommand{Command: "/hello", Response: "hi", AdminOnly: true}, "2")
	require.NoError(t, err)

	assert.Equal(t, "/hello", s.Commands[0].Command)
	assert.Equal(t, "/hello", s.Commands[1].Command)
	assert.True(t, s.Commands[1].AdminOnly)
}

func TestProgrammableCommandPrefixNormalization(t *testing.T) {
	s := NewBotState()
	s, err := AddProgrammableCommand(s, ProgrammableCommand{Command: "foo", Code: "return 1"}, "1")
	require.NoError(t, err)
	s, err = AddProgrammableCommand(s, ProgrammableCommand{Command: "/p_bar", Code: "return 2"}, "2")
	require.NoError(t, err)

	assert.Equal(t, "/p_foo", s.ProgrammableCommands[0].Command)
	assert.Equal(t, "/p_bar", s.ProgrammableCommands[1].Command)
	assert.Equal(t, "return 1", s.ProgrammableCommands[0].Code)
}

func TestValidationLeavesStateUnchanged(t *testing.T) {
	s := NewBotState()

	cases := []struct {
		name string
		run  func() (BotState, error)
		want error
	}{
		{"command without response", func() (BotState, error) {
			return AddCommand(s, CustomCommand{Command: "x"}, "1")
		}, common.ErrCommandFieldsRequired},
		{"command without text", func() (BotState, error) {
			return AddCommand(s, CustomCommand{Command: "  ", Response: "r"}, "1")
		}, common.ErrCommandFieldsRequired},
		{"programmable without code", func() (BotState, error) {
			return AddProgrammableCommand(s, ProgrammableCommand{Command: "x"}, "1")
		}, common.ErrProgrammableFieldsRequired},
		{"file without description", func() (BotState, error) {
			return AddFile(s, SharedFile{Name: "n", Key: "k"}, "1")
		}, common.ErrFileFieldsRequired},
		{"empty channel", func() (BotState, error) {
			return AddChannel(s, ManagedChannel{ID: " "})
		}, common.ErrChannelIDRequired},
		{"blank banned word", func() (BotState, error) {
			return AddBannedWord(s, "   ")
		}, common.ErrBannedWordRequired},
		{"share without file", func() (BotState, error) {
			return SendDirectFile(s, DirectShare{RecipientID: "1"}, "1", time.Now())
		}, common.ErrShareFieldsRequired},
		{"admin without username", func() (BotState, error) {
			return AddAdmin(s, User{ID: "1"}, seqIDs("u"))
		}, common.ErrUserFieldsRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := tc.run()
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, s, next)
		})
	}
}

func TestRemoveCommandIsExact(t *testing.T) {
	s := NewBotState()
	s, _ = AddCommand(s, CustomCommand{Command: "/dup", Response: "a"}, "1")
	s, _ = AddCommand(s, CustomCommand{Command: "/dup", Response: "b"}, "2")
	s, _ = AddCommand(s, CustomCommand{Command: "/other", Response: "c"}, "3")

	s = RemoveCommand(s, "1")
	require.Len(t, s.Commands, 2)
	assert.Equal(t, "2", s.Commands[0].ID)
	assert.Equal(t, "/dup", s.Commands[0].Command)
	assert.Equal(t, "3", s.Commands[1].ID)

	s = RemoveCommand(s, "missing")
	assert.Len(t, s.Commands, 2)
}

func TestRemoveFilesChannelsAndProgrammable(t *testing.T) {
	s := NewBotState()
	s, _ = AddFile(s, SharedFile{Name: "rules.pdf", Key: "rules", Description: "Rules"}, "f1")
	s, _ = AddFile(s, SharedFile{Name: "faq.pdf", Key: "rules", Description: "FAQ"}, "f2")
	s, _ = AddChannel(s, ManagedChannel{ID: "@news"})
	s, _ = AddChannel(s, ManagedChannel{ID: "@news"})
	s, _ = AddProgrammableCommand(s, ProgrammableCommand{Command: "x", Code: "c"}, "p1")

	assert.Len(t, s.Channels, 2, "channels are not deduplicated")

	s = RemoveFile(s, "f1")
	s = RemoveChannel(s, "@news")
	s = RemoveProgrammableCommand(s, "p1")

	require.Len(t, s.Files, 1)
	assert.Equal(t, "f2", s.Files[0].ID)
	assert.Empty(t, s.Channels)
	assert.Empty(t, s.ProgrammableCommands)
}

func TestBannedWordNormalization(t *testing.T) {
	s := NewBotState()
	s, err := AddBannedWord(s, "SPAM")
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, s.BannedWords)

	s = RemoveBannedWord(s, "SPAM")
	assert.Equal(t, []string{"spam"}, s.BannedWords, "wrong case must not remove")

	s = RemoveBannedWord(s, "spam")
	assert.Empty(t, s.BannedWords)
}

func TestMatchBannedWords(t *testing.T) {
	s := NewBotState()
	s, _ = AddBannedWord(s, "spam")
	s, _ = AddBannedWord(s, "Casino")
	s, _ = AddBannedWord(s, "spam")

	assert.Equal(t, []string{"spam", "casino"}, MatchBannedWords(s, "Best CASINO, no SPAM"))
	assert.Empty(t, MatchBannedWords(s, "hello"))
}

func TestDirectShareOrdering(t *testing.T) {
	s := NewBotState()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var err error
	for i := 1; i <= 3; i++ {
		s, err = SendDirectFile(s, DirectShare{
			RecipientID: "42",
			FileName:    fmt.Sprintf("file-%d.zip", i),
		}, fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	require.Len(t, s.DirectShares, 3)
	assert.Equal(t, "file-3.zip", s.DirectShares[0].FileName)
	assert.Equal(t, "file-1.zip", s.DirectShares[2].FileName)
	assert.Equal(t, base.Add(3*time.Minute), s.DirectShares[0].Timestamp)
}

func TestRemoveAdminKeepsLedger(t *testing.T) {
	s := NewBotState()
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("u"))
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("v"))
	s, _ = AddModerator(s, User{ID: "1", Username: "alice"}, seqIDs("w"))

	assert.Len(t, s.Admins, 2)
	assert.Len(t, s.ManagedUsers, 1)

	s = RemoveAdmin(s, "1")
	assert.Empty(t, s.Admins)
	assert.Len(t, s.Moderators, 1)
	assert.Len(t, s.ManagedUsers, 1)

	s = RemoveModerator(s, "1")
	assert.Empty(t, s.Moderators)
	assert.Len(t, s.ManagedUsers, 1)
}

func TestEndToEndScenario(t *testing.T) {
	s := NewBotState()

	s, err := AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("TBP"))
	require.NoError(t, err)
	require.Len(t, s.ManagedUsers, 1)
	assert.NotEmpty(t, s.ManagedUsers[0].UniqueID)
	assert.Equal(t, 0, s.ManagedUsers[0].Warnings)

	for i := 0; i < 3; i++ {
		s, _ = AddWarning(s, "1")
	}
	assert.Equal(t, 3, s.ManagedUsers[0].Warnings)
	assert.True(t, s.ManagedUsers[0].IsBanned)

	s = PardonUser(s, "1")
	assert.Equal(t, 0, s.ManagedUsers[0].Warnings)
	assert.False(t, s.ManagedUsers[0].IsBanned)

	s = RemoveAdmin(s, "1")
	assert.Empty(t, s.Admins)
	require.Len(t, s.ManagedUsers, 1)
	assert.Equal(t, "1", s.ManagedUsers[0].ID)
}

func TestSettingsAndRunFlags(t *testing.T) {
	s := NewBotState()
	s = SetToken(s, "123:abc")
	s = SetSeniorAdminID(s, "777")
	s = StartBot(s)
	assert.Equal(t, "123:abc", s.Token)
	assert.Equal(t, "777", s.SeniorAdminID)
	assert.True(t, s.IsRunning)

	s = StopBot(s)
	assert.False(t, s.IsRunning)
}

func TestRoundTripPersistence(t *testing.T) {
	s := NewBotState()
	s = SetToken(s, "123:abc")
	s = SetSeniorAdminID(s, "")
	s = StartBot(s)
	s, _ = AddAdmin(s, User{ID: "1", Username: "alice"}, seqIDs("TBP"))
	s, _ = AddModerator(s, User{ID: "2", Username: ""}, seqIDs("TBP"))
	s, _ = AddModerator(s, User{ID: "2", Username: "bob"}, seqIDs("X"))
	s, _ = AddCommand(s, CustomCommand{Command: "hi", Response: "hello", AdminOnly: true}, "c1")
	s, _ = AddProgrammableCommand(s, ProgrammableCommand{Command: "calc", Code: ""}, "p0")
	s, _ = AddProgrammableCommand(s, ProgrammableCommand{Command: "calc", Code: "1+1"}, "p1")
	s, _ = AddFile(s, SharedFile{Name: "a", Key: "b", Description: "c"}, "f1")
	s, _ = AddChannel(s, ManagedChannel{ID: "-100123"})
	s, _ = AddBannedWord(s, "Spam")
	s, _ = AddWarning(s, "2")
	s = ToggleScammerStatus(s, "1")
	s, _ = SendDirectFile(s, DirectShare{RecipientID: "2", FileName: "x.zip", Caption: ""}, "d1",
		time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC))

	blob, err := Marshal(s)
	require.NoError(t, err)
	restored, err := Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, s, restored)

	empty := NewBotState()
	blob, err = Marshal(empty)
	require.NoError(t, err)
	restored, err = Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, empty, restored)
}

func TestMarshalUsesCamelCaseAndEmptyLists(t *testing.T) {
	blob, err := Marshal(BotState{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &raw))

	for _, key := range []string{
		"token", "isRunning", "seniorAdminId", "admins", "moderators", "commands",
		"programmableCommands", "files", "channels", "managedUsers", "bannedWords", "directShares",
	} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `[]`, string(raw["admins"]))
	assert.JSONEq(t, `[]`, string(raw["directShares"]))
}

func TestUnmarshalPartialBlob(t *testing.T) {
	s, err := Unmarshal([]byte(`{"token":"t","managedUsers":[{"id":"1","uniqueId":"TBP-1-abcde","warnings":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, "t", s.Token)
	assert.NotNil(t, s.Admins)
	require.Len(t, s.ManagedUsers, 1)
	assert.Equal(t, 2, s.ManagedUsers[0].Warnings)

	_, err = Unmarshal([]byte(`{not json`))
	assert.Error(t, err)
}
