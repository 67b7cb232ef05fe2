// Package validation checks server and tunnel fields, both strictly before
// frpc is started and leniently while the user is still typing.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"frpcpanel/internal/config"
)

const (
	FieldServerAddr    = "server_addr"
	FieldServerPort    = "server_port"
	FieldType          = "type"
	FieldLocalPort     = "local_port"
	FieldRemotePort    = "remote_port"
	FieldCustomDomains = "custom_domains"
)

// Hint codes shown next to fields by the live validator.
const (
	ErrInvalidPort    = "err_invalid_port"
	ErrDomainRequired = "err_domain_required"
)

// FieldError is one submit-time failure. Index is the tunnel position, or -1
// for server-level fields.
type FieldError struct {
	Index   int
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

func IsValidPort(port string) bool {
	if port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	v, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return v >= 1 && v <= 65535
}

func ValidateStart(serverAddr, serverPort string, proxies []config.ProxyItem) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(serverAddr) == "" {
		errs = append(errs, FieldError{Index: -1, Field: FieldServerAddr, Message: "Server address is required"})
	}
	if !IsValidPort(serverPort) {
		errs = append(errs, FieldError{Index: -1, Field: FieldServerPort, Message: "Server port is invalid (must be 1-65535)"})
	}
	return append(errs, ValidateProxies(proxies)...)
}

func ValidateProxies(proxies []config.ProxyItem) []FieldError {
	var errs []FieldError
	for i, p := range proxies {
		label := tunnelLabel(p, i)
		if !p.Type.Valid() {
			errs = append(errs, FieldError{Index: i, Field: FieldType, Message: fmt.Sprintf("Tunnel %s: type %q is not one of tcp, udp, http, https", label, p.Type)})
		}
		if !IsValidPort(p.LocalPort) {
			errs = append(errs, FieldError{Index: i, Field: FieldLocalPort, Message: fmt.Sprintf("Tunnel %s: local_port is invalid", label)})
		}
		if p.Type.UsesRemotePort() && !IsValidPort(p.RemotePortValue()) {
			errs = append(errs, FieldError{Index: i, Field: FieldRemotePort, Message: fmt.Sprintf("Tunnel %s: remote_port is invalid", label)})
		}
		if p.Type.UsesDomain() && strings.TrimSpace(p.CustomDomainsValue()) == "" {
			errs = append(errs, FieldError{Index: i, Field: FieldCustomDomains, Message: fmt.Sprintf("Tunnel %s: custom domain is required", label)})
		}
	}
	return errs
}

func tunnelLabel(p config.ProxyItem, index int) string {
	if p.Name != "" {
		return p.Name
	}
	return strconv.Itoa(index + 1)
}

type ServerFieldErrors struct {
	ServerAddr string
	ServerPort string
}

type ProxyFieldErrors struct {
	LocalPort     string
	RemotePort    string
	CustomDomains string
}

func (e ProxyFieldErrors) Empty() bool {
	return e == ProxyFieldErrors{}
}

type ConfigFieldErrors struct {
	Server  ServerFieldErrors
	Proxies map[int]ProxyFieldErrors
}

// ValidateFields produces inline hints. Fields the user has not filled in yet
// are never flagged so a fresh tunnel does not light up while being typed.
func ValidateFields(serverAddr, serverPort string, proxies []config.ProxyItem) ConfigFieldErrors {
	out := ConfigFieldErrors{Proxies: map[int]ProxyFieldErrors{}}

	if strings.TrimSpace(serverPort) != "" && !IsValidPort(serverPort) {
		out.Server.ServerPort = ErrInvalidPort
	}

	for i, p := range proxies {
		var entry ProxyFieldErrors
		if strings.TrimSpace(p.LocalPort) != "" && !IsValidPort(p.LocalPort) {
			entry.LocalPort = ErrInvalidPort
		}
		if p.Type.UsesRemotePort() {
			if rp := p.RemotePortValue(); strings.TrimSpace(rp) != "" && !IsValidPort(rp) {
				entry.RemotePort = ErrInvalidPort
			}
		}
		if p.Type.UsesDomain() && p.CustomDomains != nil &&
			strings.TrimSpace(*p.CustomDomains) == "" && strings.TrimSpace(p.LocalPort) != "" {
			entry.CustomDomains = ErrDomainRequired
		}
		if !entry.Empty() {
			out.Proxies[i] = entry
		}
	}
	return out
}
