package botstate

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *Store) {
	t.Helper()
	store := newTestStore(t, &fakePersister{})
	r := chi.NewRouter()
	r.Route("/api", NewHandler(store).RegisterRoutes)
	return r, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) BotState {
	t.Helper()
	var s BotState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&s))
	return s
}

func TestHandlerStateAndSettings(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, mustField(t, w.Body.Bytes(), "admins"))

	w = doJSON(t, h, http.MethodPost, "/api/bot/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/settings", map[string]string{"token": "123:abc", "seniorAdminId": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	s := decodeState(t, w)
	assert.Equal(t, "123:abc", s.Token)
	assert.Equal(t, "1", s.SeniorAdminID)

	w = doJSON(t, h, http.MethodPut, "/api/settings/token", map[string]string{"token": "456:def"})
	assert.Equal(t, "456:def", decodeState(t, w).Token)

	w = doJSON(t, h, http.MethodPut, "/api/settings/senior-admin", map[string]string{"seniorAdminId": "2"})
	assert.Equal(t, "2", decodeState(t, w).SeniorAdminID)

	w = doJSON(t, h, http.MethodPost, "/api/bot/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeState(t, w).IsRunning)

	w = doJSON(t, h, http.MethodPost, "/api/bot/stop", nil)
	assert.False(t, decodeState(t, w).IsRunning)
}

func mustField(t *testing.T, body []byte, key string) string {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	return string(raw[key])
}

func TestHandlerRolesAndModeration(t *testing.T) {
	h, store := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/admins", User{ID: "1", Username: "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeState(t, w).ManagedUsers, 1)

	w = doJSON(t, h, http.MethodPost, "/api/moderators", User{ID: "2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = doJSON(t, h, http.MethodPost, "/api/moderation/users/1/warn", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/moderation/users?filter=warned", nil)
	var warned []ManagedUser
	require.NoError(t, json.NewDecoder(w.Body).Decode(&warned))
	assert.Len(t, warned, 1)

	w = doJSON(t, h, http.MethodPost, "/api/moderation/users/1/warn", nil)
	var res WarningResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.True(t, res.AutoBanned)
	assert.NotEmpty(t, res.Notice)

	w = doJSON(t, h, http.MethodPost, "/api/moderation/users/1/pardon", nil)
	assert.False(t, decodeState(t, w).ManagedUsers[0].IsBanned)

	w = doJSON(t, h, http.MethodPost, "/api/moderation/users/1/scammer", nil)
	assert.True(t, decodeState(t, w).ManagedUsers[0].IsScammer)

	w = doJSON(t, h, http.MethodPost, "/api/moderation/users/1/ban", nil)
	assert.True(t, decodeState(t, w).ManagedUsers[0].IsBanned)

	w = doJSON(t, h, http.MethodDelete, "/api/admins/1", nil)
	assert.Empty(t, decodeState(t, w).Admins)
	assert.Len(t, store.Snapshot().ManagedUsers, 1)

	w = doJSON(t, h, http.MethodGet, "/api/moderation/users?filter=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerCommandsFilesChannels(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/commands", CustomCommand{Command: "hello", Response: "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	s := decodeState(t, w)
	require.Len(t, s.Commands, 1)
	assert.Equal(t, "/hello", s.Commands[0].Command)

	w = doJSON(t, h, http.MethodDelete, "/api/commands/"+s.Commands[0].ID, nil)
	assert.Empty(t, decodeState(t, w).Commands)

	w = doJSON(t, h, http.MethodPost, "/api/programmable-commands", ProgrammableCommand{Command: "foo", Code: "x"})
	s = decodeState(t, w)
	assert.Equal(t, "/p_foo", s.ProgrammableCommands[0].Command)
	w = doJSON(t, h, http.MethodDelete, "/api/programmable-commands/"+s.ProgrammableCommands[0].ID, nil)
	assert.Empty(t, decodeState(t, w).ProgrammableCommands)

	w = doJSON(t, h, http.MethodPost, "/api/files", SharedFile{Name: "a.pdf", Key: "a", Description: "A"})
	s = decodeState(t, w)
	require.Len(t, s.Files, 1)
	w = doJSON(t, h, http.MethodDelete, "/api/files/"+s.Files[0].ID, nil)
	assert.Empty(t, decodeState(t, w).Files)

	w = doJSON(t, h, http.MethodPost, "/api/channels", ManagedChannel{ID: "@news"})
	assert.Len(t, decodeState(t, w).Channels, 1)
	w = doJSON(t, h, http.MethodDelete, "/api/channels/@news", nil)
	assert.Empty(t, decodeState(t, w).Channels)

	w = doJSON(t, h, http.MethodGet, "/api/commands/system", nil)
	var sys []SystemCommand
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sys))
	assert.Len(t, sys, 5)

	w = doJSON(t, h, http.MethodPost, "/api/commands", CustomCommand{Command: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerBannedWordsAndCheck(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/banned-words", map[string]string{"word": "SPAM"})
	assert.Equal(t, []string{"spam"}, decodeState(t, w).BannedWords)

	w = doJSON(t, h, http.MethodPost, "/api/moderation/check", map[string]string{"text": "buy Spam now"})
	require.Equal(t, http.StatusOK, w.Code)
	var check checkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&check))
	assert.True(t, check.WouldWarn)
	assert.Equal(t, []string{"spam"}, check.Matched)

	w = doJSON(t, h, http.MethodDelete, "/api/banned-words/SPAM", nil)
	assert.Equal(t, []string{"spam"}, decodeState(t, w).BannedWords)

	w = doJSON(t, h, http.MethodDelete, "/api/banned-words/spam", nil)
	assert.Empty(t, decodeState(t, w).BannedWords)
}

func TestHandlerDashboardAndShares(t *testing.T) {
	h, store := newTestRouter(t)
	_, err := store.SendDirectFile(t.Context(), DirectShare{RecipientID: "1", FileName: "a"})
	require.NoError(t, err)

	w := doJSON(t, h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d DashboardStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&d))
	assert.Equal(t, "Stopped", d.Status)

	w = doJSON(t, h, http.MethodGet, "/api/direct-shares", nil)
	var shares []DirectShare
	require.NoError(t, json.NewDecoder(w.Body).Decode(&shares))
	assert.Len(t, shares, 1)
}

func TestHandlerRejectsBadJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admins", bytes.NewBufferString("{oops"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admins", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerDecodesEncodedPathParams(t *testing.T) {
	h, store := newTestRouter(t)

	doJSON(t, h, http.MethodPost, "/api/channels", ManagedChannel{ID: "@news"})
	w := doJSON(t, h, http.MethodDelete, "/api/channels/%40news", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).Channels)

	doJSON(t, h, http.MethodPost, "/api/banned-words", map[string]string{"word": "a/b"})
	doJSON(t, h, http.MethodPost, "/api/banned-words", map[string]string{"word": "100%"})
	require.Equal(t, []string{"a/b", "100%"}, store.Snapshot().BannedWords)

	w = doJSON(t, h, http.MethodDelete, "/api/banned-words/a%2Fb", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"100%"}, decodeState(t, w).BannedWords)

	w = doJSON(t, h, http.MethodDelete, "/api/banned-words/100%25", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).BannedWords)
}

func TestHandlerDecodesEncodedUserID(t *testing.T) {
	h, _ := newTestRouter(t)

	doJSON(t, h, http.MethodPost, "/api/admins", User{ID: "@alice", Username: "alice"})
	w := doJSON(t, h, http.MethodPost, "/api/moderation/users/%40alice/ban", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeState(t, w).ManagedUsers[0].IsBanned)

	w = doJSON(t, h, http.MethodDelete, "/api/admins/%40alice", nil)
	assert.Empty(t, decodeState(t, w).Admins)
}
