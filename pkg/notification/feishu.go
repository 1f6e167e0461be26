package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"mlboard/pkg/config"
	"mlboard/pkg/logger"
)

// FeishuNotifier sends notifications to Feishu (Lark)
type FeishuNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewFeishuNotifier creates a new Feishu notifier
func NewFeishuNotifier() *FeishuNotifier {
	// Priority: config file > environment variable
	var webhookURL string
	if config.GlobalConfig != nil && config.GlobalConfig.Notification.FeishuWebhookURL != "" {
		webhookURL = config.GlobalConfig.Notification.FeishuWebhookURL
	} else {
		webhookURL = os.Getenv("FEISHU_WEBHOOK_URL")
	}

	if webhookURL == "" {
		logger.Warnf("Feishu webhook URL not configured, Feishu notifications will be disabled")
	}

	return &FeishuNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// TrainingFailureNotification carries the details of a failed run.
type TrainingFailureNotification struct {
	TrainingID   int64
	TrainingName string
	Reason       string
	FailedAt     time.Time
}

// SendTrainingFailure posts a failure card to the configured webhook. A
// missing webhook is a no-op, not an error.
func (f *FeishuNotifier) SendTrainingFailure(ctx context.Context, n *TrainingFailureNotification) error {
	if f.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(f.buildFailureMessage(n))
	if err != nil {
		return fmt.Errorf("failed to marshal Feishu message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", f.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Feishu notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Feishu API returned status code: %d", resp.StatusCode)
	}

	logger.InfoCtx(ctx, "Feishu failure notification sent for training %d", n.TrainingID)
	return nil
}

// buildFailureMessage builds a Feishu message card for a failed training
func (f *FeishuNotifier) buildFailureMessage(n *TrainingFailureNotification) map[string]interface{} {
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"template": "red",
				"title": map[string]interface{}{
					"content": "Training Failed",
					"tag":     "plain_text",
				},
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"content": fmt.Sprintf("**Training**: %s (#%d)", n.TrainingName, n.TrainingID),
						"tag":     "lark_md",
					},
				},
				map[string]interface{}{
					"tag": "div",
					"fields": []interface{}{
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Reason**\n%s", n.Reason),
								"tag":     "lark_md",
							},
						},
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Failed At**\n%s", n.FailedAt.Format("2006-01-02 15:04:05")),
								"tag":     "lark_md",
							},
						},
					},
				},
			},
		},
	}
}
