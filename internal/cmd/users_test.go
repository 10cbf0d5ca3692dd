package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `[
  {"id": 15, "loginName": "ann", "fullName": "Ann Agent", "isEnabled": true, "maxChats": "4", "skillIds": [17, "18"]},
  {"id": "16", "loginName": "gone", "fullName": "Old User", "deleted": true}
]`

func withLogin(routes *routeHandler, bearer string) *routeHandler {
	return routes.On(http.MethodPost, accountPath("", "login"), jsonResponse(http.StatusOK, `{"bearer":"`+bearer+`"}`))
}

func TestUsersList_LogsInAndUsesBearer(t *testing.T) {
	path := accountPath("", "configuration/le-users/users")
	routes := withLogin(newRouteHandler(), "tok-1").On(http.MethodGet, path, jsonResponse(http.StatusOK, usersBody))
	setupTestEnv(t, routes)

	out, _, err := captureOutput(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "LOGIN")
	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "17,18")
	assert.NotContains(t, out, "gone")

	req := routes.last(t, path)
	assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
	assert.Equal(t, "4", parseQuery(t, req.Query).Get("v"))

	login := decodeJSONBody(t, routes.last(t, accountPath("", "login")).Body)
	assert.Equal(t, "api-bot", login["username"])
	assert.Equal(t, "ck-test-key", login["appKey"])
}

func TestUsersList_IncludeDeleted(t *testing.T) {
	path := accountPath("", "configuration/le-users/users")
	setupTestEnv(t, withLogin(newRouteHandler(), "tok").On(http.MethodGet, path, jsonResponse(http.StatusOK, usersBody)))

	out, _, err := captureOutput(t, "users", "list", "--deleted")
	require.NoError(t, err)
	assert.Contains(t, out, "gone")
}

func TestUsersGet(t *testing.T) {
	path := accountPath("", "configuration/le-users/users/15")
	setupTestEnv(t, withLogin(newRouteHandler(), "tok").On(http.MethodGet, path, jsonResponse(http.StatusOK, `{"id":"15","loginName":"ann","email":"ann@example.com","skillIds":[17]}`)))

	out, _, err := captureOutput(t, "users", "get", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Login: ann")
	assert.Contains(t, out, "Email: ann@example.com")
	assert.Contains(t, out, "Skills: 17")
	assert.Contains(t, out, "Nickname: -")
}

func TestUsersList_LoginFailureIsAuthError(t *testing.T) {
	routes := newRouteHandler().On(http.MethodPost, accountPath("", "login"), jsonResponse(http.StatusUnauthorized, `{"error":"bad credentials"}`))
	setupTestEnv(t, routes)

	_, stderr, err := captureOutput(t, "users", "list")
	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "lp auth login")
	assert.Zero(t, routes.count(accountPath("", "configuration/le-users/users")))
}

func TestUsersList_JSONErrorPayload(t *testing.T) {
	path := accountPath("", "configuration/le-users/users")
	setupTestEnv(t, withLogin(newRouteHandler(), "tok").On(http.MethodGet, path, jsonResponse(http.StatusNotFound, `{"message":"no such account"}`)))

	_, stderr, err := captureOutput(t, "users", "list", "--json")
	require.Error(t, err)
	payload := decodeJSONBody(t, []byte(lastJSONObject(stderr)))
	assert.Equal(t, "api", payload["kind"])
	assert.EqualValues(t, 404, payload["status"])
	assert.Contains(t, payload["error"], "no such account")
}
