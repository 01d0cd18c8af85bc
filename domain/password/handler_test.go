package password

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFakeService(t *testing.T, store Store) {
	t.Helper()
	orig := newService
	newService = func() *Service { return NewService(store) }
	t.Cleanup(func() { newService = orig })
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, body string) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/reset-password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec.Code, payload
}

func TestForgotPasswordHandler(t *testing.T) {
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	withFakeService(t, store)

	code, payload := doJSON(t, ForgotPasswordHandler, http.MethodPost, `{"email":"alice@memoria.app"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "Reset token created successfully", payload["message"])

	token, _ := payload["resetToken"].(string)
	assert.Len(t, token, ResetTokenBytes*2)
	assert.Equal(t, token, store.users[1].resetToken)
}

func TestForgotPasswordHandlerUnknownEmail(t *testing.T) {
	withFakeService(t, newFakeStore())

	code, payload := doJSON(t, ForgotPasswordHandler, http.MethodPost, `{"email":"nobody@memoria.app"}`)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "User not found", payload["error"])
}

func TestForgotPasswordHandlerMissingEmail(t *testing.T) {
	withFakeService(t, newFakeStore())

	code, payload := doJSON(t, ForgotPasswordHandler, http.MethodPost, `{}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, payload["success"])
}

func TestResetPasswordHandler(t *testing.T) {
	store := newFakeStore(&fakeUser{
		id: 1, email: "alice@memoria.app", username: "alice",
		resetToken: "goodtoken", resetExpiry: time.Now().Add(time.Hour),
	})
	withFakeService(t, store)

	code, payload := doJSON(t, ResetPasswordHandler, http.MethodPut,
		`{"resetToken":"goodtoken","newPassword":"brand-new-password"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "Password updated successfully. Please login with username: alice", payload["message"])
}

func TestResetPasswordHandlerInvalidToken(t *testing.T) {
	withFakeService(t, newFakeStore())

	code, payload := doJSON(t, ResetPasswordHandler, http.MethodPut,
		`{"resetToken":"badtoken","newPassword":"brand-new-password"}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Invalid or expired reset token", payload["error"])
}

func TestResetPasswordHandlerMissingFields(t *testing.T) {
	withFakeService(t, newFakeStore())

	code, _ := doJSON(t, ResetPasswordHandler, http.MethodPut, `{"resetToken":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, ResetPasswordHandler, http.MethodPut, `{"newPassword":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResetPasswordHandlerVerifyFailure(t *testing.T) {
	store := newFakeStore(&fakeUser{
		id: 1, email: "alice@memoria.app", username: "alice",
		resetToken: "goodtoken", resetExpiry: time.Now().Add(time.Hour),
	})
	store.corruptWrites = true
	withFakeService(t, store)

	code, payload := doJSON(t, ResetPasswordHandler, http.MethodPut,
		`{"resetToken":"goodtoken","newPassword":"brand-new-password"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Failed to update password. Please try again.", payload["error"])
	assert.Equal(t, "goodtoken", store.users[1].resetToken)
}
