package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/ports"
	"zabbix-host-import/internal/shared"
	"zabbix-host-import/internal/types"
)

const defaultZabbixTimeout = 30 * time.Second

// ZabbixAPIAdapter talks JSON-RPC 2.0 to a Zabbix frontend
// (api_jsonrpc.php) and implements every remote service port. One
// adapter instance is safe for sequential use within an import run.
type ZabbixAPIAdapter struct {
	Endpoint string
	Token    string
	Timeout  time.Duration

	requestID atomic.Int64
}

func NewZabbixAPIAdapter(endpoint string, token string, timeoutSec int) *ZabbixAPIAdapter {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultZabbixTimeout
	}
	return &ZabbixAPIAdapter{
		Endpoint: endpoint,
		Token:    token,
		Timeout:  timeout,
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (a *ZabbixAPIAdapter) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	endpoint := strings.TrimSpace(a.Endpoint)
	if endpoint == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("zabbix api endpoint is empty")
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      a.requestID.Add(1),
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode api request").
			WithCause(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create api request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json-rpc")
	if strings.TrimSpace(a.Token) != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
	client := &http.Client{Timeout: a.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(method + " request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(method + " request failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, endpoint, strings.TrimSpace(string(payload))))
	}
	var rpc rpcResponse
	if err := json.Unmarshal(payload, &rpc); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode api response").
			WithCause(err)
	}
	if rpc.Error != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("zabbix api error: %s", rpc.Error.Message)).
			WithCause(fmt.Errorf("code=%d data=%s", rpc.Error.Code, rpc.Error.Data))
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpc.Result, result); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode api result").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("method", method).Msg("api call completed")
	return nil
}

type getParams struct {
	Output []string            `json:"output"`
	Filter map[string][]string `json:"filter"`
	Limit  int                 `json:"limit"`
}

func (a *ZabbixAPIAdapter) FindGroup(ctx context.Context, name string) (string, bool, error) {
	var groups []struct {
		GroupID string `json:"groupid"`
	}
	err := a.call(ctx, "hostgroup.get", getParams{
		Output: []string{"groupid"},
		Filter: map[string][]string{"name": {name}},
		Limit:  1,
	}, &groups)
	if err != nil {
		return "", false, err
	}
	if len(groups) == 0 {
		return "", false, nil
	}
	return groups[0].GroupID, true, nil
}

func (a *ZabbixAPIAdapter) CreateGroup(ctx context.Context, name string) (string, error) {
	var created struct {
		GroupIDs []string `json:"groupids"`
	}
	err := a.call(ctx, "hostgroup.create", map[string]string{"name": name}, &created)
	if err != nil {
		return "", err
	}
	if len(created.GroupIDs) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("hostgroup.create for %q returned no id", name))
	}
	return created.GroupIDs[0], nil
}

func (a *ZabbixAPIAdapter) FindTemplate(ctx context.Context, name string) (string, bool, error) {
	var templates []struct {
		TemplateID string `json:"templateid"`
	}
	err := a.call(ctx, "template.get", getParams{
		Output: []string{"templateid"},
		Filter: map[string][]string{"name": {name}},
		Limit:  1,
	}, &templates)
	if err != nil {
		return "", false, err
	}
	if len(templates) == 0 {
		return "", false, nil
	}
	return templates[0].TemplateID, true, nil
}

func (a *ZabbixAPIAdapter) FindProxy(ctx context.Context, name string) (string, bool, error) {
	var proxies []struct {
		ProxyID string `json:"proxyid"`
	}
	err := a.call(ctx, "proxy.get", getParams{
		Output: []string{"proxyid"},
		Filter: map[string][]string{"name": {name}},
		Limit:  1,
	}, &proxies)
	if err != nil {
		return "", false, err
	}
	if len(proxies) == 0 {
		return "", false, nil
	}
	return proxies[0].ProxyID, true, nil
}

func (a *ZabbixAPIAdapter) FindProxyGroup(ctx context.Context, name string) (string, bool, error) {
	var groups []struct {
		ProxyGroupID string `json:"proxy_groupid"`
	}
	err := a.call(ctx, "proxygroup.get", getParams{
		Output: []string{"proxy_groupid"},
		Filter: map[string][]string{"name": {name}},
		Limit:  1,
	}, &groups)
	if err != nil {
		return "", false, err
	}
	if len(groups) == 0 {
		return "", false, nil
	}
	return groups[0].ProxyGroupID, true, nil
}

func (a *ZabbixAPIAdapter) CreateHost(ctx context.Context, payload types.HostPayload) (string, error) {
	var created struct {
		HostIDs []string `json:"hostids"`
	}
	err := a.call(ctx, "host.create", payload, &created)
	if err != nil {
		return "", err
	}
	if len(created.HostIDs) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("host.create for %q returned no id", payload.Host))
	}
	return created.HostIDs[0], nil
}

var _ ports.GroupService = (*ZabbixAPIAdapter)(nil)
var _ ports.TemplateService = (*ZabbixAPIAdapter)(nil)
var _ ports.ProxyService = (*ZabbixAPIAdapter)(nil)
var _ ports.ProxyGroupService = (*ZabbixAPIAdapter)(nil)
var _ ports.HostService = (*ZabbixAPIAdapter)(nil)
