package frpc

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"frpcpanel/internal/config"
)

const (
	commonSection  = "common"
	defaultLocalIP = "127.0.0.1"
)

// BuildConfig renders the frpc INI document: a [common] section with the
// server settings followed by one section per tunnel, in list order.
func BuildConfig(in StartInput) (string, error) {
	f := ini.Empty()

	common, err := f.NewSection(commonSection)
	if err != nil {
		return "", err
	}
	keys := [][2]string{
		{"server_addr", strings.TrimSpace(in.ServerAddr)},
		{"server_port", strings.TrimSpace(in.ServerPort)},
	}
	if in.Token != "" {
		keys = append(keys, [2]string{"token", in.Token})
	}
	keys = append(keys, [2]string{"login_fail_exit", "false"})
	if err := setKeys(common, keys); err != nil {
		return "", err
	}

	names := SectionNames(in.Proxies)
	for i, p := range in.Proxies {
		sec, err := f.NewSection(names[i])
		if err != nil {
			return "", fmt.Errorf("tunnel %q: %w", p.Name, err)
		}
		if err := setKeys(sec, proxyKeys(p)); err != nil {
			return "", fmt.Errorf("tunnel %q: %w", p.Name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func proxyKeys(p config.ProxyItem) [][2]string {
	localIP := strings.TrimSpace(p.LocalIP)
	if localIP == "" {
		localIP = defaultLocalIP
	}
	keys := [][2]string{
		{"type", string(p.Type)},
		{"local_ip", localIP},
		{"local_port", strings.TrimSpace(p.LocalPort)},
	}
	switch {
	case p.Type.UsesRemotePort():
		if v := strings.TrimSpace(p.RemotePortValue()); v != "" {
			keys = append(keys, [2]string{"remote_port", v})
		}
	case p.Type.UsesDomain():
		if v := strings.TrimSpace(p.CustomDomainsValue()); v != "" {
			keys = append(keys, [2]string{"custom_domains", v})
		}
	}
	return keys
}

func setKeys(sec *ini.Section, keys [][2]string) error {
	for _, kv := range keys {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// SectionNames maps each tunnel to a unique section name. The trimmed tunnel
// name is used when free; blank names become service_<id> and taken names
// get the tunnel id appended.
func SectionNames(proxies []config.ProxyItem) []string {
	used := map[string]bool{commonSection: true, ini.DefaultSection: true}
	names := make([]string, len(proxies))
	for i, p := range proxies {
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			name = "service_" + p.ID
		case used[name]:
			name = name + "_" + p.ID
		}
		base := name
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}
