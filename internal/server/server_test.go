package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoFill/internal/config"
	"autoFill/internal/database"
	"autoFill/internal/fillscript"
	"autoFill/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `{
  "url": "https://example.com/login",
  "forms": {"f": {"opid": "f"}},
  "fields": [
    {"opid": "__0", "elementNumber": 0, "type": "text", "htmlName": "username", "viewable": true, "form": "f"},
    {"opid": "__1", "elementNumber": 1, "type": "password", "htmlName": "password", "viewable": true, "form": "f"}
  ]
}`

func newServer(t *testing.T, withDB bool) (*Server, *database.UsageRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Cfg{Autofill: config.Autofill{DefaultURIMatch: "domain", DelayBetweenOperation: 35}}
	var repo *database.UsageRepository
	if withDB {
		db, err := database.OpenSQLite(":memory:", logger.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { db.Close(logger.Nop()) })
		repo = database.NewUsageRepository(db.DB)
	}
	return New(cfg, logger.Nop(), fillscript.New(fillscript.Config{}), repo), repo
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, false)
	w := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestFillScript(t *testing.T) {
	s, _ := newServer(t, false)
	body := `{
	  "pageDetails": ` + loginPage + `,
	  "cipher": {"id": "c1", "type": 1, "name": "example",
	             "login": {"username": "jane", "password": "secret", "uris": [{"uri": "https://example.com"}]}},
	  "options": {"autoSubmitLogin": true}
	}`
	w := do(t, s, http.MethodPost, "/api/fill-script", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var script fillscript.Script
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &script))

	assert.Equal(t, []string{"__0", "__1"}, script.FilledOPIDs())
	assert.Contains(t, script.Script, fillscript.Fill("__1", "secret"))
	assert.Equal(t, []string{"f"}, script.Autosubmit)
	assert.Equal(t, 35, script.Properties.DelayBetweenOperations)
	assert.Equal(t, "login", script.ItemType)
	assert.False(t, script.UntrustedIframe)
}

func TestFillScriptUnsupportedCipher(t *testing.T) {
	s, _ := newServer(t, false)
	body := `{"pageDetails": ` + loginPage + `, "cipher": {"id": "n", "type": 2}}`

	w := do(t, s, http.MethodPost, "/api/fill-script", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFillScriptBadRequest(t *testing.T) {
	s, _ := newServer(t, false)

	w := do(t, s, http.MethodPost, "/api/fill-script", `{"cipher": {"id": "c", "type": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/fill-script", `{"pageDetails": {"fields": [{"type": "text"}]}, "cipher": {"id": "c", "type": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassify(t *testing.T) {
	s, _ := newServer(t, false)
	w := do(t, s, http.MethodPost, "/api/classify", `{"pageDetails": `+loginPage+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Fields []struct {
			OPID     string `json:"opid"`
			Username bool   `json:"username"`
			Password bool   `json:"password"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 2)
	assert.True(t, resp.Fields[0].Username)
	assert.True(t, resp.Fields[1].Password)
}

func TestLaunched(t *testing.T) {
	s, repo := newServer(t, true)

	w := do(t, s, http.MethodPost, "/api/ciphers/c1/launched", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	usage, err := repo.Usage(context.Background(), []string{"c1"})
	require.NoError(t, err)
	assert.False(t, usage["c1"].LastLaunched.IsZero())
}

func TestLaunchedWithoutDB(t *testing.T) {
	s, _ := newServer(t, false)

	w := do(t, s, http.MethodPost, "/api/ciphers/c1/launched", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
