package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"frpcpanel/internal/config"
	"frpcpanel/internal/frpc"
)

func TestFormatLogLineStripsColour(t *testing.T) {
	at := time.Date(2024, 1, 2, 13, 4, 5, 0, time.Local)
	line := FormatLogLine(frpc.LogEntry{Message: "\x1b[1;34m[I] login to server success\x1b[0m\r", Time: at})
	assert.Equal(t, "[13:04:05] [I] login to server success", line)

	out := FormatLogs([]frpc.LogEntry{{Message: "a", Time: at}, {Message: "b", Time: at}})
	assert.Equal(t, "[13:04:05] a\n[13:04:05] b", out)
}

func TestRemoteAddressesSkipsUnreachable(t *testing.T) {
	f := newFixture(t, nil)
	f.app.SetServerAddr("frp.example.com")
	f.app.AddProxy()
	f.app.AddProxy()
	f.app.AddProxy()
	assert.NoError(t, f.app.UpdateProxy(0, FieldRemotePort, "6000"))
	assert.NoError(t, f.app.UpdateProxy(2, FieldType, string(config.ProxyHTTP)))
	assert.NoError(t, f.app.UpdateProxy(2, FieldCustomDomains, "web.example.com"))

	got := f.app.RemoteAddresses()
	assert.Equal(t, []RemoteEntry{
		{Index: 0, Name: "service_1", Address: "frp.example.com:6000"},
		{Index: 2, Name: "service_3", Address: "web.example.com"},
	}, got)
}
