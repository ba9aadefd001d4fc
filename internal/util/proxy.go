package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy selector for outbound HTTP clients.
// With no explicit proxy URLs it defers to the standard environment
// variables; otherwise HTTPS requests prefer httpsProxy and everything
// else goes through httpProxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
