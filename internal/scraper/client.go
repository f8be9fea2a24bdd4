package scraper

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http/httpproxy"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
)

// NewHTTPClient returns the client used to fetch brand and competitor pages.
// With browserTLS the TLS handshake presents a Chrome ClientHello, unless an
// HTTP(S) proxy is configured in the environment: the proxy carries the TLS
// session then, so the standard handshake is used and a warning is logged.
func NewHTTPClient(timeout time.Duration, browserTLS bool, log logger.Logger) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	proxyConfig := httpproxy.FromEnvironment()
	proxyFunc := proxyConfig.ProxyFunc()

	transport := &http.Transport{
		Proxy: func(r *http.Request) (*url.URL, error) {
			return proxyFunc(r.URL)
		},
		DialContext:         dialer.DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: timeout,
	}

	if browserTLS {
		if usesProxy(proxyConfig) {
			transport.DialTLSContext = nil
			log.Warn("proxy configured, browser TLS fingerprint disabled", map[string]interface{}{
				"http_proxy":  proxyConfig.HTTPProxy != "",
				"https_proxy": proxyConfig.HTTPSProxy != "",
			})
		} else {
			transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChromeTLS(ctx, dialer, network, addr)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func usesProxy(cfg *httpproxy.Config) bool {
	return cfg.HTTPProxy != "" || cfg.HTTPSProxy != ""
}

func dialChromeTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	// net/http cannot speak h2 over a foreign TLS conn, so pin ALPN to http/1.1.
	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
	if err != nil {
		conn.Close()
		return nil, err
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, err
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
