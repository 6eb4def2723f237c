package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pluginforge.dev/cli/internal/core/ports"
)

// InstallReporter posts install notifications to the stats endpoint.
// It is best-effort by construction: every failure is logged at debug
// level and absorbed, never returned.
type InstallReporter struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  ports.LoggingGateway
}

// NewInstallReporter creates a reporter. An empty url disables
// reporting entirely.
func NewInstallReporter(url string, timeout time.Duration, logger ports.LoggingGateway) *InstallReporter {
	return &InstallReporter{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

// ReportInstall notifies the stats endpoint that pluginID was installed.
func (r *InstallReporter) ReportInstall(ctx context.Context, pluginID string) {
	if r.url == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"plugin_id": pluginID})
	if err != nil {
		return
	}

	reportCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reportCtx, "POST", r.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Log(ports.LogLevelDebug, "install report failed", map[string]interface{}{
			"plugin": pluginID,
		})
		return
	}
	resp.Body.Close()
}
