package dispatcher

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

const DefaultSource = "barbershop-admin"

// Engine posts one payload per target customer to a fixed webhook.
// Deliveries are sequential; a failed delivery is counted and the loop moves on.
type Engine struct {
	poster webhook.Poster
	url    string
	source string
	now    func() time.Time
}

func NewEngine(poster webhook.Poster, url, source string) *Engine {
	if source == "" {
		source = DefaultSource
	}
	return &Engine{poster: poster, url: url, source: source, now: time.Now}
}

// Targets selects customers for unit. An empty unit or "all" selects everyone.
func Targets(customers []model.Customer, unit string) []model.Customer {
	if model.IsAllUnits(unit) {
		return customers
	}
	unit = strings.TrimSpace(unit)

	out := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if string(c.Unit) == unit {
			out = append(out, c)
		}
	}
	return out
}

// Dispatch delivers templateID to every customer in the unit's target set.
// Nothing is sent when the template is blank or the target set is empty.
func (e *Engine) Dispatch(ctx context.Context, templateID, unit string, customers []model.Customer) (model.DispatchResult, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return model.DispatchResult{}, apperr.Validation("template_id", "select a template")
	}

	targets := Targets(customers, unit)
	if len(targets) == 0 {
		return model.DispatchResult{}, apperr.Validation("unit", "no customers to dispatch to")
	}

	res := model.DispatchResult{Total: len(targets)}
	for _, c := range targets {
		payload := model.NewDispatchPayload(templateID, c, e.now(), e.source)
		if err := e.poster.Post(ctx, e.url, payload); err != nil {
			metrics.DispatchMessagesTotal.WithLabelValues(metrics.ResultFailed).Inc()
			logger.Log.Warn("dispatch delivery failed",
				zap.String("template", templateID),
				zap.String("customer_id", c.ID),
				zap.Error(err),
			)
			continue
		}

		metrics.DispatchMessagesTotal.WithLabelValues(metrics.ResultSent).Inc()
		res.Success++
	}

	logger.Log.Info("dispatch finished",
		zap.String("template", templateID),
		zap.String("unit", unit),
		zap.Int("success", res.Success),
		zap.Int("total", res.Total),
	)

	return res, nil
}
