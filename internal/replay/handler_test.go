package replay

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/txreplay/internal/logging"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/replay", NewHandler(NewService(logging.Discard(), nil, nil)).Replay)
	return app
}

func doReplay(t *testing.T, app *fiber.App, body, accept string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/replay", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, mimeCSV)
	if accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	_, err = uuid.Parse(resp.Header.Get(runIDHeader))
	assert.NoError(t, err, "run id header")
	return resp.StatusCode, resp.Header.Get(fiber.HeaderContentType), string(payload)
}

func TestHandlerReplaysCSV(t *testing.T) {
	status, contentType, body := doReplay(t, newTestApp(),
		"type,client,tx,amount\ndeposit,2,1,3\ndeposit,1,2,1.5\ndispute,1,2,\n", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, mimeCSV, contentType)
	assert.Equal(t, "client, available, held, total, locked\n1,0,1.5,1.5,false\n2,3,0,3,false\n", body)
}

func TestHandlerRejectsMalformedInput(t *testing.T) {
	status, _, body := doReplay(t, newTestApp(), "type,client,tx,amount\ndeposit,1,1,abc\n", "")

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Error: Invalid amount at line 1\n", body)
}

func TestHandlerJSON(t *testing.T) {
	app := newTestApp()

	status, _, body := doReplay(t, app, "type,client,tx,amount\ndeposit,1,1,0.25\nwithdrawal,1,2,1\n", fiber.MIMEApplicationJSON)
	require.Equal(t, fiber.StatusOK, status)

	var got struct {
		Records  int `json:"records"`
		Ignored  int `json:"ignored"`
		Accounts []struct {
			Client    int    `json:"client"`
			Available string `json:"available"`
			Locked    bool   `json:"locked"`
		} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, 2, got.Records)
	assert.Equal(t, 1, got.Ignored)
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, 1, got.Accounts[0].Client)
	assert.Equal(t, "0.25", got.Accounts[0].Available)

	status, _, body = doReplay(t, app, "type,client\n", fiber.MIMEApplicationJSON)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.JSONEq(t, `{"error":"Expected columns: type, client, tx, amount"}`, body)

	status, _, body = doReplay(t, app, "type,client,tx,amount\n", fiber.MIMEApplicationJSON)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"accounts":[]`)
}
