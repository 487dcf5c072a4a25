package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"aihub/internal/core"
	"aihub/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

// base 提供各 connector 共用的實例存取與 HTTP 呼叫
type base struct {
	instance *InstanceConfig
	client   *http.Client
	trace    *telemetry.Trace
}

func (b *base) Instance() *InstanceConfig {
	return b.instance
}

// postJSON 送出一次上游呼叫。
// 失敗分類：逾時 504、傳輸錯誤 502、非 2xx 透傳上游狀態碼。
func (b *base) postJSON(ctx context.Context, method, url string, payload any, headers map[string]string) *core.RequestResult {
	ctx, span, end := b.trace.WithSpan(ctx, "connector.request")
	defer end(nil)

	span.SetAttributes(
		attribute.String("ai.connector", string(b.instance.Connector)),
		attribute.String("http.url", url),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		end(err)
		return core.ResultFromError(http.StatusInternalServerError, "marshal request payload failed", err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		end(err)
		return core.ResultFromError(http.StatusInternalServerError, "create http request failed", err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		end(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return core.ResultFromError(http.StatusGatewayTimeout, "upstream request timed out", err.Error())
		}
		return core.ResultFromError(http.StatusBadGateway, "upstream request failed", err.Error())
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		end(err)
		return core.ResultFromError(http.StatusBadGateway, "read upstream response failed", err.Error())
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		cause := fmt.Errorf("upstream non-2xx: %s (%d)", resp.Status, resp.StatusCode)
		end(cause)
		return core.ResultFromError(resp.StatusCode, "upstream error: "+strings.TrimSpace(string(raw)), cause.Error())
	}

	return core.ResultFromResponse(raw)
}

// bearerHeaders 組 OpenAI 相容服務的認證標頭
func bearerHeaders(apiKey string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + apiKey}
}
