package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/realtime"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/logger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeHub hands out change-feed subscriptions
type ChangeHub interface {
	Subscribe(tenantID uuid.UUID, tables []string) (*realtime.Subscription, error)
	Unsubscribe(sub *realtime.Subscription)
}

// tableResources maps each watched table to the resource whose read
// permission it requires
var tableResources = map[string]string{
	realtime.TableCustomers:        identity.ResourceCustomer,
	realtime.TableSuppliers:        identity.ResourceSupplier,
	realtime.TableSalesInvoices:    identity.ResourceSalesInvoice,
	realtime.TableSupplierInvoices: identity.ResourceSupplierInvoice,
	realtime.TablePurchaseOrders:   identity.ResourcePurchaseOrder,
	realtime.TableJournalEntries:   identity.ResourceJournal,
	realtime.TableLedgerAccounts:   identity.ResourceAccount,
}

// RealtimeHandler streams change events as Server-Sent Events
type RealtimeHandler struct {
	BaseHandler
	hub       ChangeHub
	heartbeat time.Duration
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub ChangeHub, heartbeat time.Duration) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &RealtimeHandler{hub: hub, heartbeat: heartbeat}
}

// connectedEvent is the first frame of every stream
type connectedEvent struct {
	SubscriptionID string   `json:"subscription_id"`
	Tables         []string `json:"tables"`
}

// Stream handles GET /realtime/stream?tables=a,b. Without tables the stream
// covers every table the caller may read.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	tables, err := readableTables(claims, c.Query("tables"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if len(tables) == 0 {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "No readable tables to subscribe to")
		return
	}

	sub, err := h.hub.Subscribe(claims.TenantUUID(), tables)
	if err != nil {
		if errors.Is(err, realtime.ErrTooManySubscribers) {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Too many realtime connections, retry later")
			return
		}
		h.HandleError(c, err)
		return
	}
	defer h.hub.Unsubscribe(sub)

	log := logger.GetGinLogger(c).With(zap.String("subscription_id", sub.ID))
	log.Debug("realtime stream opened", zap.Strings("tables", tables))

	// Streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err := writeEvent(c.Writer, "connected", sub.ID, connectedEvent{SubscriptionID: sub.ID, Tables: tables}); err != nil {
		return
	}
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("realtime stream closed by client")
			return
		case <-sub.Done():
			return
		case ev := <-sub.Events():
			if err := writeEvent(c.Writer, string(ev.Type), ev.ID.String(), ev); err != nil {
				log.Debug("realtime write failed", zap.Error(err))
				return
			}
			c.Writer.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// writeEvent writes one SSE frame
func writeEvent(w io.Writer, event, id string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", event, id, data)
	return err
}

// readableTables parses the comma separated table list and keeps the
// tables the caller holds read permission for. Unknown names are rejected.
func readableTables(claims *auth.Claims, raw string) ([]string, error) {
	requested := realtime.Tables()
	if raw = strings.TrimSpace(raw); raw != "" {
		requested = requested[:0:0]
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !realtime.IsTable(name) {
				return nil, fmt.Errorf("unknown table %q", name)
			}
			requested = append(requested, name)
		}
	}

	out := make([]string, 0, len(requested))
	for _, table := range requested {
		if claims.HasPermission(identity.Permission(tableResources[table], identity.ActionRead)) {
			out = append(out, table)
		}
	}
	return out, nil
}
