package lametric

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Scheme is the URL scheme used to reach the device.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// DefaultLocalPort is the port the device serves plain HTTP on.
const DefaultLocalPort = 8080

const apiBasePath = "/api/v2/"

// ParseScheme accepts "http" or "https" in any case.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeHTTP:
		return SchemeHTTP, nil
	case SchemeHTTPS:
		return SchemeHTTPS, nil
	default:
		return "", fmt.Errorf("unknown scheme %q", s)
	}
}

// Connection is the target the client talks to.
type Connection struct {
	Scheme Scheme
	Host   string
	// Port is omitted from the URL when zero.
	Port int
	// Local marks a device addressed by its local network name.
	Local bool
}

// LocalConnection targets a device by its name on the local network over
// plain HTTP. A zero port selects DefaultLocalPort.
func LocalConnection(name string, port int) Connection {
	if port == 0 {
		port = DefaultLocalPort
	}
	return Connection{Scheme: SchemeHTTP, Host: name, Port: port, Local: true}
}

// RemoteConnection targets a device exposed under a DNS name or IP. An empty
// scheme selects https; a zero port is left out of the URL.
func RemoteConnection(scheme Scheme, host string, port int) Connection {
	if scheme == "" {
		scheme = SchemeHTTPS
	}
	return Connection{Scheme: scheme, Host: host, Port: port}
}

// Validate checks the connection before any URL is built.
func (c Connection) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidURL)
	}
	if strings.ContainsAny(c.Host, "/?#@ ") {
		return fmt.Errorf("%w: host %q is not a bare host name", ErrInvalidURL, c.Host)
	}
	if c.Scheme != SchemeHTTP && c.Scheme != SchemeHTTPS {
		return fmt.Errorf("%w: unknown scheme %q", ErrInvalidURL, c.Scheme)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidURL, c.Port)
	}
	if c.Local && c.Scheme == SchemeHTTPS {
		return fmt.Errorf("%w: a local device name must use http", ErrInvalidURL)
	}
	return nil
}

// BaseURL returns scheme://host[:port]/api/v2/.
func (c Connection) BaseURL() string {
	host := c.Host
	if c.Port != 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return string(c.Scheme) + "://" + host + apiBasePath
}

func (c Connection) String() string {
	return strings.TrimSuffix(c.BaseURL(), apiBasePath)
}
