package internal

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// The MCP server owns stdout for the protocol, so its diagnostics go to a
// log file under the cache directory instead. Setup failures disable
// logging rather than breaking the server.

var (
	mcpLogger     *log.Logger
	mcpLoggerOnce sync.Once
	mcpLogEnabled bool
)

// InitMCPLogging sets up file logging once, per the config toggle
func InitMCPLogging(config *Config) {
	mcpLoggerOnce.Do(func() {
		mcpLogEnabled = config.MCPLogEnabled
		if !mcpLogEnabled {
			return
		}

		logDir := filepath.Join(xdg.CacheHome, "vidrag")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			mcpLogEnabled = false
			return
		}

		logFile, err := os.OpenFile(filepath.Join(logDir, "mcp.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			mcpLogEnabled = false
			return
		}

		mcpLogger = log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
	})
}

func mcpLogf(level, format string, args ...any) {
	if !mcpLogEnabled || mcpLogger == nil {
		return
	}

	mcpLogger.Printf("[MCP] [%s] "+format, append([]any{level}, args...)...)
}

func MCPLogInfo(format string, args ...any) {
	mcpLogf("INFO", format, args...)
}

func MCPLogError(format string, args ...any) {
	mcpLogf("ERROR", format, args...)
}
