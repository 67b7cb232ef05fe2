//go:build with_embedded_frpc

package frpc

import (
	"embed"
	"path"
	"runtime"
)

//go:embed assets/frpc/*/*
var embeddedFS embed.FS

func embeddedBinary() (string, []byte, bool) {
	name := binaryName(runtime.GOOS)
	data, err := embeddedFS.ReadFile(path.Join("assets", "frpc", runtime.GOOS+"_"+runtime.GOARCH, name))
	if err != nil {
		return "", nil, false
	}
	return name, data, true
}
