package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/internal/utils"
)

// productEvents names the business actions worth tracking, keyed by "METHOD route".
var productEvents = map[string]string{
	"POST /api/v1/clients":                    "client_created",
	"POST /api/v1/projects":                   "project_created",
	"POST /api/v1/projects/:projectId/tasks":  "task_created",
	"PATCH /api/v1/tasks/:taskId/status":      "task_status_changed",
	"POST /api/v1/time-entries":               "time_entry_logged",
	"POST /api/v1/time-entries/start":         "timer_started",
	"POST /api/v1/time-entries/:id/stop":      "timer_stopped",
	"POST /api/v1/invoices":                   "invoice_created",
	"PATCH /api/v1/invoices/:id/status":       "invoice_status_changed",
	"POST /api/v1/invoices/:id/convert":       "proforma_converted",
	"POST /api/v1/invoices/:id/send":          "invoice_sent",
	"POST /api/v1/invoices/:id/wave-checkout": "wave_checkout_created",
	"POST /api/v1/expenses":                   "expense_created",
	"PATCH /api/v1/expenses/:id/subscription": "subscription_toggled",
	"POST /api/v1/files":                      "file_uploaded",
	"GET /api/v1/dashboard/report.pdf":        "report_downloaded",
	"POST /api/v1/assistant/chat":             "assistant_asked",
	"POST /api/v1/wave/payouts":               "wave_payout_created",
	"POST /api/v1/wave/payout-batches":        "wave_payout_batch_created",
	"POST /api/v1/wave/assignments":           "wave_transaction_assigned",
}

// PosthogMiddleware reports successful business actions of authenticated users.
// Reads and unknown routes are not tracked.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event, ok := productEvents[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		for _, p := range c.Params {
			props[strings.ToLower(p.Key)] = p.Value
		}
		posthogClient.Enqueue(userID, event, props)
	}
}
