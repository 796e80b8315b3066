package replay

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/txreplay/internal/ledger"
)

const (
	mimeCSV     = "text/csv"
	runIDHeader = "X-Run-ID"
)

// Handler exposes replay over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds a replay HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type replayResponse struct {
	RunID    string                `json:"run_id"`
	Records  int                   `json:"records"`
	Ignored  int                   `json:"ignored"`
	Accounts []ledger.AccountState `json:"accounts"`
}

// Replay runs the request body as a CSV feed. The response is the account
// table as text/csv, or JSON when the client prefers it. Malformed input
// yields 422 carrying the same message the CLI prints.
func (h *Handler) Replay(c *fiber.Ctx) error {
	body := bytes.NewReader(c.Body())

	if c.Accepts(mimeCSV, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		res, err := h.service.Run(c.UserContext(), body)
		c.Set(runIDHeader, res.RunID.String())
		if err != nil {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		accounts := res.Accounts
		if accounts == nil {
			accounts = []ledger.AccountState{}
		}
		return c.Status(http.StatusOK).JSON(replayResponse{
			RunID:    res.RunID.String(),
			Records:  res.Stats.Records,
			Ignored:  res.Stats.Ignored,
			Accounts: accounts,
		})
	}

	var out bytes.Buffer
	res, err := h.service.Process(c.UserContext(), body, &out)
	c.Set(runIDHeader, res.RunID.String())
	c.Set(fiber.HeaderContentType, mimeCSV)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	return c.Status(status).Send(out.Bytes())
}
