package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ProxyType string

const (
	ProxyTCP   ProxyType = "tcp"
	ProxyUDP   ProxyType = "udp"
	ProxyHTTP  ProxyType = "http"
	ProxyHTTPS ProxyType = "https"
)

var ProxyTypes = []ProxyType{ProxyTCP, ProxyUDP, ProxyHTTP, ProxyHTTPS}

func ParseProxyType(s string) (ProxyType, error) {
	t := ProxyType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown proxy type %q", s)
}

// Valid reports whether t is exactly one of ProxyTypes, as frpc expects it.
func (t ProxyType) Valid() bool {
	for _, known := range ProxyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UsesDomain reports whether the tunnel is routed by custom domain instead of remote port.
func (t ProxyType) UsesDomain() bool {
	return t == ProxyHTTP || t == ProxyHTTPS
}

func (t ProxyType) UsesRemotePort() bool {
	return t == ProxyTCP || t == ProxyUDP
}

// ProxyItem is one tunnel definition. RemotePort and CustomDomains are
// pointers so that "never set" and "set to empty" survive a round trip.
type ProxyItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          ProxyType `json:"type"`
	LocalIP       string    `json:"local_ip"`
	LocalPort     string    `json:"local_port"`
	RemotePort    *string   `json:"remote_port,omitempty"`
	CustomDomains *string   `json:"custom_domains,omitempty"`
}

func (p ProxyItem) RemotePortValue() string {
	if p.RemotePort == nil {
		return ""
	}
	return *p.RemotePort
}

func (p ProxyItem) CustomDomainsValue() string {
	if p.CustomDomains == nil {
		return ""
	}
	return *p.CustomDomains
}

type AppConfig struct {
	Language   string      `json:"language"`
	ServerAddr string      `json:"serverAddr"`
	ServerPort string      `json:"serverPort"`
	Token      string      `json:"token"`
	Proxies    []ProxyItem `json:"proxies"`
}

const (
	LanguageZH = "zh"
	LanguageEN = "en"
)

func DefaultConfig() *AppConfig {
	return &AppConfig{
		Language:   LanguageZH,
		ServerAddr: "127.0.0.1",
		ServerPort: "7000",
		Token:      "",
		Proxies:    []ProxyItem{},
	}
}

func StringPtr(s string) *string {
	return &s
}

func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "frpcpanel"), nil
}

// CacheDir holds files derived at runtime, such as an extracted frpc.
func CacheDir(dataDir string) string {
	return filepath.Join(dataDir, "cache")
}

func (c *AppConfig) Clone() *AppConfig {
	b, _ := json.Marshal(c)
	var out AppConfig
	_ = json.Unmarshal(b, &out)
	if out.Proxies == nil {
		out.Proxies = []ProxyItem{}
	}
	return &out
}
