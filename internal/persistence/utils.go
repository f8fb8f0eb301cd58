package persistence

import (
	"os"
	"time"
	"tradedesk/internal/common"
)

const DefaultHealthcheckInterval = 3 * time.Second
const DefaultRetryInterval = 3 * time.Second

func getAppName(appName string) string {
	if appName != "" {
		return appName
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown_host"
	}
	return hostname
}

func getServiceLogs(serviceLogs *chan common.ServiceLog) chan common.ServiceLog {
	if serviceLogs != nil {
		return *serviceLogs
	}
	return common.GetNoopServiceLog()
}

func orDefaultDuration(value, fallback time.Duration) time.Duration {
	if value != 0 {
		return value
	}
	return fallback
}
