package logging

import (
	"path/filepath"
	"time"
)

// sessionStamp orders session files by start time.
const sessionStamp = "20060102_150405"

// SessionFile names a per-session file such as "geoscape.20260212_213836.log"
// in dir. ext includes its leading dot.
func SessionFile(dir, appName string, sessionStart time.Time, ext string) string {
	return filepath.Join(dir, appName+"."+sessionStart.Format(sessionStamp)+ext)
}

// LogFilePath is the session log file in logsDir.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return SessionFile(logsDir, appName, sessionStart, ".log")
}
