package consumption

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aihub/config"
	"aihub/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

// APIClient 以 HTTP 讀取上游帳務 API 的額度狀態
type APIClient struct {
	client *http.Client
	trace  *telemetry.Trace
	conf   *config.Configuration
}

func NewAPIClient(client *http.Client, trace *telemetry.Trace, conf *config.Configuration) *APIClient {
	return &APIClient{client: client, trace: trace, conf: conf}
}

func (c *APIClient) Fetch(ctx context.Context) (*UsageInfo, error) {
	url := strings.TrimRight(c.conf.Consumption.BaseURL, "/") + "/v1/usage"
	ctx, span, end := c.trace.WithSpan(ctx, "consumption.usage_api")
	defer end(nil)
	span.SetAttributes(attribute.String("http.url", url))

	if timeout := time.Duration(c.conf.Consumption.Timeout) * time.Second; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		end(err)
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.conf.Consumption.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		end(err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		cause := fmt.Errorf("usage api non-200: %s %s", resp.Status, strings.TrimSpace(string(raw)))
		end(cause)
		return nil, cause
	}

	var info UsageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		end(err)
		return nil, fmt.Errorf("decode usage api response failed: %w", err)
	}
	return &info, nil
}
