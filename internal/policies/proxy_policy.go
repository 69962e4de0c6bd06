package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ProxyPolicy decides how a row naming both a proxy and a proxy group is
// treated. The importer rejects the row: letting one silently win hides
// a data error in the source file.
type ProxyPolicy struct{}

func NewProxyPolicy() ProxyPolicy {
	return ProxyPolicy{}
}

// Check validates the proxy assignment of one host row.
func (ProxyPolicy) Check(host string, proxy string, proxyGroup string) error {
	if strings.TrimSpace(proxy) != "" && strings.TrimSpace(proxyGroup) != "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("host %q sets both proxy %q and proxy group %q", host, proxy, proxyGroup))
	}
	return nil
}
