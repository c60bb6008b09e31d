// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/store/audit"
	"github.com/dalemusser/nurseryhome/internal/app/system/paging"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// nameLookups bounds concurrent backend calls when resolving actor names.
const nameLookups = 8

/*─────────────────────────────────────────────────────────────────────────────*
| GET /audit                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList shows the audit trail, newest first, with category, event type
// and date filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	category := strings.TrimSpace(query.Get(r, "category"))
	eventType := strings.TrimSpace(query.Get(r, "event_type"))
	startDate := strings.TrimSpace(query.Get(r, "start_date"))
	endDate := strings.TrimSpace(query.Get(r, "end_date"))
	page := paging.ParsePage(r)

	filter := buildFilter(category, eventType, startDate, endDate)
	filter.Limit = paging.PageSize
	filter.Offset = paging.Offset(page, paging.PageSize)

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit query failed", err, "Không thể tải nhật ký hoạt động.", "/")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit count failed", err, "Không thể tải nhật ký hoạt động.", "/")
		return
	}

	names := h.actorNames(ctx, events)
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			EventName: eventLabel(e.EventType),
			ActorName: e.ActorID,
			TargetID:  e.TargetID,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if n, ok := names[e.ActorID]; ok {
			item.ActorName = n
		}
		items = append(items, item)
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(r, "Nhật ký hoạt động", "/"),
		Items:      items,
		Category:   category,
		EventType:  eventType,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: categories,
		EventTypes: eventTypesFor(category),
		Window:     paging.Compute(page, paging.PageSize, total, len(items)),
	})
}

// buildFilter turns the query string into an audit filter. Unparseable
// dates are ignored; the end date covers the whole day.
func buildFilter(category, eventType, startDate, endDate string) audit.QueryFilter {
	f := audit.QueryFilter{Category: category, EventType: eventType}
	if t, err := time.ParseInLocation(dateLayout, startDate, time.Local); err == nil {
		f.StartTime = &t
	}
	if t, err := time.ParseInLocation(dateLayout, endDate, time.Local); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f
}

// actorNames resolves each distinct actor id to a full name. Lookups that
// fail leave the raw id in place.
func (h *Handler) actorNames(ctx context.Context, events []audit.Event) map[string]string {
	ids := make(map[string]struct{})
	for _, e := range events {
		if e.ActorID != "" {
			ids[e.ActorID] = struct{}{}
		}
	}

	var mu sync.Mutex
	names := make(map[string]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nameLookups)
	for id := range ids {
		g.Go(func() error {
			u, err := h.Users.GetByID(gctx, id)
			if err != nil {
				h.Log.Warn("audit actor lookup failed", zap.String("actor_id", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			names[id] = u.FullName
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return names
}
