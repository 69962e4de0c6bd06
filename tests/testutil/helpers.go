// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// WriteHostsCSV writes a host file into a fresh temp directory and
// returns its path.
func WriteHostsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ZabbixFake is an in-process JSON-RPC endpoint that mimics the subset
// of the Zabbix API the importer calls. All state is in memory and
// guarded by a mutex so tests can inspect it while the server runs.
type ZabbixFake struct {
	Server *httptest.Server

	mu           sync.Mutex
	Groups       map[string]string
	Templates    map[string]string
	Proxies      map[string]string
	ProxyGroups  map[string]string
	CreatedHosts []map[string]interface{}
	GroupCreates map[string]int
	FailHosts    map[string]string
	nextID       int
}

func NewZabbixFake(t *testing.T) *ZabbixFake {
	t.Helper()
	fake := &ZabbixFake{
		Groups:       map[string]string{},
		Templates:    map[string]string{},
		Proxies:      map[string]string{},
		ProxyGroups:  map[string]string{},
		GroupCreates: map[string]int{},
		FailHosts:    map[string]string{},
		nextID:       10500,
	}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.Server.Close)
	return fake
}

func (f *ZabbixFake) URL() string {
	return f.Server.URL
}

type fakeRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     int64           `json:"id"`
}

func (f *ZabbixFake) handle(w http.ResponseWriter, r *http.Request) {
	var req fakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var result interface{}
	var rpcErr map[string]interface{}
	switch req.Method {
	case "hostgroup.get":
		result = f.lookup(req.Params, f.Groups, "groupid")
	case "hostgroup.create":
		var params struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(req.Params, &params)
		f.nextID++
		id := fmt.Sprintf("%d", f.nextID)
		f.Groups[params.Name] = id
		f.GroupCreates[params.Name]++
		result = map[string][]string{"groupids": {id}}
	case "template.get":
		result = f.lookup(req.Params, f.Templates, "templateid")
	case "proxy.get":
		result = f.lookup(req.Params, f.Proxies, "proxyid")
	case "proxygroup.get":
		result = f.lookup(req.Params, f.ProxyGroups, "proxy_groupid")
	case "host.create":
		var payload map[string]interface{}
		_ = json.Unmarshal(req.Params, &payload)
		host, _ := payload["host"].(string)
		if reason, ok := f.FailHosts[host]; ok {
			rpcErr = map[string]interface{}{
				"code":    -32602,
				"message": "Invalid params.",
				"data":    reason,
			}
			break
		}
		f.CreatedHosts = append(f.CreatedHosts, payload)
		f.nextID++
		result = map[string][]string{"hostids": {fmt.Sprintf("%d", f.nextID)}}
	default:
		rpcErr = map[string]interface{}{
			"code":    -32601,
			"message": "Method not found.",
			"data":    req.Method,
		}
	}

	response := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		response["error"] = rpcErr
	} else {
		response["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (f *ZabbixFake) lookup(params json.RawMessage, table map[string]string, idField string) []map[string]string {
	var get struct {
		Filter map[string][]string `json:"filter"`
	}
	_ = json.Unmarshal(params, &get)
	names := get.Filter["name"]
	matches := []map[string]string{}
	for _, name := range names {
		if id, ok := table[name]; ok {
			matches = append(matches, map[string]string{idField: id})
		}
	}
	return matches
}
