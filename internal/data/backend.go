package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/tidwall/gjson"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
)

// 错误信息中保留的响应体长度
const maxErrorBody = 512

type backendRepo struct {
	data *Data
	url  string
	log  *log.Helper
}

func NewBackendRepo(data *Data, c *conf.Backend, logger log.Logger) repo.BackendRepo {
	return &backendRepo{
		data: data,
		url:  c.Url,
		log:  log.NewHelper(logger),
	}
}

// Generate 发送一次 POST 请求，不重试
func (r *backendRepo) Generate(ctx context.Context, payload domain.Payload, model domain.LLMChoice) (*domain.Document, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	if err := r.data.limiter.Wait(ctx); err != nil {
		return nil, domain.ErrBackendUnreachable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.data.client.Do(req)
	if err != nil {
		r.log.WithContext(ctx).Errorf("backend request failed: %v", err)
		return nil, domain.ErrBackendUnreachable(fmt.Errorf("request failed: %w", err))
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.ErrBackendUnreachable(fmt.Errorf("read response failed: %w", err))
	}
	r.log.WithContext(ctx).Debugf("backend responded with status %d (%d bytes)", res.StatusCode, len(raw))

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		doc, err := ParseDocument(raw)
		if err != nil {
			return nil, domain.ErrBackendUnreachable(fmt.Errorf("decode response failed: %w", err))
		}
		if doc.Empty() {
			return nil, domain.ErrBackendUnreachable(fmt.Errorf("empty response"))
		}
		return doc, nil

	case res.StatusCode == http.StatusBadRequest:
		fields, detail := parseErrors(raw)
		return nil, domain.ErrBackendRejected(fields, detail)

	case res.StatusCode == http.StatusInternalServerError:
		fields, detail := parseErrors(raw)
		if detail == "" && len(fields) > 0 {
			detail = strings.Join(fields, ", ")
		}
		return nil, domain.ErrGenerationFailed(model, detail)

	default:
		return nil, domain.ErrUnclassified(res.StatusCode, truncate(string(raw), maxErrorBody))
	}
}

// parseErrors 解析 {"errors": <string|mapping>}。
// 映射时返回键名列表，detail 为 "key: value" 的拼接；字符串时只返回 detail
func parseErrors(raw []byte) ([]string, string) {
	e := gjson.GetBytes(raw, "errors")
	if !e.Exists() {
		return nil, ""
	}
	if !e.IsObject() {
		return nil, e.String()
	}

	var fields, details []string
	e.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, key.String())
		details = append(details, fmt.Sprintf("%s: %s", key.String(), value.String()))
		return true
	})
	return fields, strings.Join(details, "; ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
