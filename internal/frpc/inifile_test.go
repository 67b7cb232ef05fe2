package frpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"frpcpanel/internal/config"
)

func TestBuildConfigCommonSection(t *testing.T) {
	text, err := BuildConfig(StartInput{ServerAddr: "frp.example.com", ServerPort: "7000", Token: "abc"})
	require.NoError(t, err)

	f, err := ini.Load([]byte(text))
	require.NoError(t, err)

	common := f.Section("common")
	assert.Equal(t, "frp.example.com", common.Key("server_addr").String())
	assert.Equal(t, "7000", common.Key("server_port").String())
	assert.Equal(t, "abc", common.Key("token").String())
	assert.Equal(t, "false", common.Key("login_fail_exit").String())
	assert.Equal(t, []string{ini.DefaultSection, "common"}, f.SectionStrings())
}

func TestBuildConfigOmitsEmptyToken(t *testing.T) {
	text, err := BuildConfig(StartInput{ServerAddr: "1.2.3.4", ServerPort: "7000"})
	require.NoError(t, err)

	f, err := ini.Load([]byte(text))
	require.NoError(t, err)
	assert.False(t, f.Section("common").HasKey("token"))
}

func TestBuildConfigProxySections(t *testing.T) {
	in := StartInput{
		ServerAddr: "1.2.3.4",
		ServerPort: "7000",
		Proxies: []config.ProxyItem{
			{ID: "1", Name: " ssh ", Type: config.ProxyTCP, LocalIP: "127.0.0.1", LocalPort: "22", RemotePort: config.StringPtr("6000"), CustomDomains: config.StringPtr("ignored.example.com")},
			{ID: "2", Name: "web", Type: config.ProxyHTTPS, LocalIP: "", LocalPort: "443", CustomDomains: config.StringPtr("www.example.com"), RemotePort: config.StringPtr("1")},
			{ID: "3", Name: "dns", Type: config.ProxyUDP, LocalIP: "10.0.0.53", LocalPort: "53", RemotePort: config.StringPtr("")},
		},
	}
	text, err := BuildConfig(in)
	require.NoError(t, err)

	f, err := ini.Load([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, []string{ini.DefaultSection, "common", "ssh", "web", "dns"}, f.SectionStrings())

	ssh := f.Section("ssh")
	assert.Equal(t, "tcp", ssh.Key("type").String())
	assert.Equal(t, "127.0.0.1", ssh.Key("local_ip").String())
	assert.Equal(t, "22", ssh.Key("local_port").String())
	assert.Equal(t, "6000", ssh.Key("remote_port").String())
	assert.False(t, ssh.HasKey("custom_domains"))

	web := f.Section("web")
	assert.Equal(t, "https", web.Key("type").String())
	assert.Equal(t, defaultLocalIP, web.Key("local_ip").String())
	assert.Equal(t, "www.example.com", web.Key("custom_domains").String())
	assert.False(t, web.HasKey("remote_port"))

	assert.False(t, f.Section("dns").HasKey("remote_port"))
}

func TestSectionNamesAvoidCollisions(t *testing.T) {
	names := SectionNames([]config.ProxyItem{
		{ID: "a1", Name: "web"},
		{ID: "b2", Name: " web "},
		{ID: "c3", Name: "  "},
		{ID: "d4", Name: "common"},
		{ID: "e5", Name: "web_b2"},
	})
	assert.Equal(t, []string{"web", "web_b2", "service_c3", "common_d4", "web_b2_e5"}, names)
}

func TestSectionNamesAllDistinct(t *testing.T) {
	proxies := []config.ProxyItem{
		{ID: "x", Name: "svc"},
		{ID: "x", Name: "svc"},
		{ID: "x", Name: "svc"},
	}
	names := SectionNames(proxies)
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate section %q", n)
		seen[n] = true
	}
	assert.Equal(t, []string{"svc", "svc_x", "svc_x_2"}, names)
}
