package webdav

import (
	"path"
	"strings"
)

const defaultRemotePath = "/frpcpanel/config.json"

func remotePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return defaultRemotePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/") {
		p += "config.json"
	}
	return path.Clean(p)
}
