package consumer

import (
	"context"
	"fmt"
	"time"

	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/metrics"
	"wisefido-sedentary/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AlertNotification is the webhook body sent when the sedentary alert is raised.
type AlertNotification struct {
	State        models.ActivityState `json:"state"`
	TimerSeconds uint64               `json:"timer_seconds"`
	Value        float64              `json:"val"`
	Timestamp    string               `json:"timestamp"`
	RaisedAt     time.Time            `json:"raised_at"`
}

// AlertNotifier posts to a webhook each time the alert goes from off to on.
type AlertNotifier struct {
	hub        *hub.Hub
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
	sub        *hub.Subscription
	raised     bool
}

func NewAlertNotifier(h *hub.Hub, url string, timeout time.Duration, logger *zap.Logger) *AlertNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &AlertNotifier{
		hub:        h,
		httpClient: client,
		url:        url,
		logger:     logger,
	}
}

// Attach subscribes to the hub.
func (a *AlertNotifier) Attach() error {
	if a.sub != nil {
		return nil
	}
	sub, err := a.hub.Subscribe()
	if err != nil {
		return fmt.Errorf("alert notifier: %w", err)
	}
	a.sub = sub
	return nil
}

// Run watches events until ctx is cancelled or the hub closes.
func (a *AlertNotifier) Run(ctx context.Context) error {
	if err := a.Attach(); err != nil {
		return err
	}
	defer a.sub.Close()

	a.logger.Info("Alert notifier started", zap.String("url", a.url))
	for {
		ev, err := a.sub.Recv(ctx)
		if err != nil {
			if endOfStream(ctx, err) {
				return nil
			}
			return err
		}
		reportLag(a.sub, "alert", a.logger)

		if ev.Alert && !a.raised {
			a.notify(ctx, ev)
		}
		a.raised = ev.Alert
	}
}

func (a *AlertNotifier) notify(ctx context.Context, ev models.ProcessedEvent) {
	body := AlertNotification{
		State:        ev.State,
		TimerSeconds: ev.Timer,
		Value:        ev.Value,
		Timestamp:    ev.Timestamp,
		RaisedAt:     time.Now().UTC(),
	}

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(a.url)
	if err != nil {
		metrics.AlertNotifications.WithLabelValues("failed").Inc()
		a.logger.Error("Alert webhook call failed", zap.Error(err))
		return
	}
	if resp.IsError() {
		metrics.AlertNotifications.WithLabelValues("rejected").Inc()
		a.logger.Error("Alert webhook rejected notification",
			zap.Int("status_code", resp.StatusCode()),
		)
		return
	}

	metrics.AlertNotifications.WithLabelValues("delivered").Inc()
	a.logger.Info("Sedentary alert notified",
		zap.Uint64("timer", ev.Timer),
		zap.String("timestamp", ev.Timestamp),
	)
}
