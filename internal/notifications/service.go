package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"atelier/internal/config"
)

const userAgent = "Atelier/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyOrderSent(ctx context.Context, orderRef, department string) error
	NotifyAssignment(ctx context.Context, orderRef, department, workerName string) error
	NotifyQueued(ctx context.Context, orderRef, department string, position int) error
	NotifyDepartmentCompleted(ctx context.Context, orderRef, department string) error
	NotifyOrderCompleted(ctx context.Context, orderRef string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		settings: cfg.Notifications,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	settings config.Notifications
}

func (n *ntfyService) NotifyOrderSent(ctx context.Context, orderRef, department string) error {
	if !n.settings.Assignments {
		return nil
	}
	data := payload{
		title:   "Atelier - Order In Factory",
		message: fmt.Sprintf("Order %s entered %s", orderRef, department),
		tags:    []string{"atelier", "order", "sent"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAssignment(ctx context.Context, orderRef, department, workerName string) error {
	if !n.settings.Assignments {
		return nil
	}
	data := payload{
		title:   "Atelier - Assigned",
		message: fmt.Sprintf("Order %s assigned to %s in %s", orderRef, workerName, department),
		tags:    []string{"atelier", "assignment"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQueued(ctx context.Context, orderRef, department string, position int) error {
	if !n.settings.Queueing {
		return nil
	}
	data := payload{
		title:   "Atelier - Queued",
		message: fmt.Sprintf("Order %s waiting in %s at position %d", orderRef, department, position),
		tags:    []string{"atelier", "queue"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDepartmentCompleted(ctx context.Context, orderRef, department string) error {
	if !n.settings.Completion {
		return nil
	}
	data := payload{
		title:   "Atelier - Department Complete",
		message: fmt.Sprintf("Order %s finished %s", orderRef, department),
		tags:    []string{"atelier", "department", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyOrderCompleted(ctx context.Context, orderRef string) error {
	if !n.settings.Completion {
		return nil
	}
	data := payload{
		title:    "Atelier - Order Complete",
		message:  fmt.Sprintf("Order %s finished the pipeline", orderRef),
		tags:     []string{"atelier", "order", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.settings.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" in ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Atelier - Error",
		message:  builder.String(),
		tags:     []string{"atelier", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Atelier - Test",
		message:  "Notification system test",
		tags:     []string{"atelier", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyOrderSent(context.Context, string, string) error             { return nil }
func (noopService) NotifyAssignment(context.Context, string, string, string) error    { return nil }
func (noopService) NotifyQueued(context.Context, string, string, int) error           { return nil }
func (noopService) NotifyDepartmentCompleted(context.Context, string, string) error   { return nil }
func (noopService) NotifyOrderCompleted(context.Context, string) error                { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                           { return nil }
