// Package i18n holds the panel's zh/en strings.
package i18n

import "frpcpanel/internal/config"

var zh = map[string]string{
	"app_title":           "穿透助手",
	"tab_status":          "状态",
	"tab_config":          "配置",
	"status_stopped":      "已停止",
	"status_connecting":   "连接中",
	"status_running":      "运行中",
	"start":               "启动",
	"stop":                "停止",
	"busy":                "请稍候…",
	"logs":                "日志",
	"remote_addresses":    "远程地址",
	"copy":                "复制",
	"copied":              "已复制",
	"server":              "服务器",
	"server_addr":         "服务器地址",
	"server_port":         "服务器端口",
	"token":               "Token",
	"tunnels":             "隧道",
	"add_tunnel":          "添加隧道",
	"delete":              "删除",
	"delete_confirm":      "确定删除隧道 %s 吗？",
	"name":                "名称",
	"type":                "类型",
	"local_ip":            "本地 IP",
	"local_port":          "本地端口",
	"remote_port":         "远程端口",
	"custom_domains":      "自定义域名",
	"language":            "English",
	"show":                "显示",
	"hide":                "隐藏",
	"quit":                "退出",
	"no_tunnels":          "还没有隧道",
	"err_invalid_port":    "端口无效 (1-65535)",
	"err_domain_required": "请填写域名",
	"help_tui":            "s/回车 启动停止 · 1-9 复制地址 · l 切换语言 · q 退出",
}

var en = map[string]string{
	"app_title":           "Tunnel Helper",
	"tab_status":          "Status",
	"tab_config":          "Config",
	"status_stopped":      "Stopped",
	"status_connecting":   "Connecting",
	"status_running":      "Running",
	"start":               "Start",
	"stop":                "Stop",
	"busy":                "Please wait…",
	"logs":                "Logs",
	"remote_addresses":    "Remote addresses",
	"copy":                "Copy",
	"copied":              "Copied",
	"server":              "Server",
	"server_addr":         "Server address",
	"server_port":         "Server port",
	"token":               "Token",
	"tunnels":             "Tunnels",
	"add_tunnel":          "Add tunnel",
	"delete":              "Delete",
	"delete_confirm":      "Delete tunnel %s?",
	"name":                "Name",
	"type":                "Type",
	"local_ip":            "Local IP",
	"local_port":          "Local port",
	"remote_port":         "Remote port",
	"custom_domains":      "Custom domain",
	"language":            "中文",
	"show":                "Show",
	"hide":                "Hide",
	"quit":                "Quit",
	"no_tunnels":          "No tunnels yet",
	"err_invalid_port":    "Invalid port (1-65535)",
	"err_domain_required": "Domain is required",
	"help_tui":            "s/enter start-stop · 1-9 copy address · l language · q quit",
}

// T looks key up for lang, falling back to zh and then to the key itself.
func T(lang, key string) string {
	table := zh
	if lang == config.LanguageEN {
		table = en
	}
	if s, ok := table[key]; ok {
		return s
	}
	if s, ok := zh[key]; ok {
		return s
	}
	return key
}
