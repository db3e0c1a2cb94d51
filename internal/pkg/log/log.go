// Package log adds logging utilities.
package log

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// FrameFields builds structured fields for one wire frame, for the
// per-frame trace line every session emits.
func FrameFields(username, command string, payload []byte) logrus.Fields {
	return logrus.Fields{
		"username": username,
		"command":  command,
		"payload":  string(payload),
	}
}

// SessionFields builds structured fields identifying a session.
func SessionFields(username, remoteAddr string) logrus.Fields {
	return logrus.Fields{
		"username": username,
		"remote":   remoteAddr,
	}
}

// TransferFields builds structured fields for a file-transfer event.
func TransferFields(uuid, sender, receiver, filename string) logrus.Fields {
	return logrus.Fields{
		"uuid":     uuid,
		"sender":   sender,
		"receiver": receiver,
		"filename": filename,
	}
}

// Logger returns the package-level logger.
func Logger() logrus.FieldLogger {
	return logger
}
