package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// New creates a new logger instance
func New(level string) *Logger {
	log := logrus.New()

	// Set log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	// Set output format
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	// Set output destination
	log.SetOutput(os.Stdout)

	return &Logger{Logger: log}
}

// WithFields creates a new logger entry with the specified fields
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithField creates a new logger entry with a single field
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithError creates a new logger entry with an error field
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// WithUserID creates a new logger entry with user ID field
func (l *Logger) WithUserID(userID string) *logrus.Entry {
	return l.Logger.WithField("user_id", userID)
}

// WithRole creates a new logger entry with role field
func (l *Logger) WithRole(role string) *logrus.Entry {
	return l.Logger.WithField("role", role)
}

// WithComponent creates a new logger entry with component name field
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// Auth logs authentication lifecycle events with structured format
func (l *Logger) Auth(event, email string, success bool, details map[string]interface{}) {
	entry := l.Logger.WithFields(logrus.Fields{
		"auth":    true,
		"event":   event,
		"email":   email,
		"success": success,
		"details": details,
	})

	if success {
		entry.Info("Auth event")
	} else {
		entry.Warn("Auth event failed")
	}
}

// Session logs session state transitions
func (l *Logger) Session(transition, userID string, details map[string]interface{}) {
	l.Logger.WithFields(logrus.Fields{
		"session":    true,
		"transition": transition,
		"user_id":    userID,
		"details":    details,
	}).Info("Session transition")
}

// Navigation logs navigation guard decisions
func (l *Logger) Navigation(route, decision string, role string) {
	l.Logger.WithFields(logrus.Fields{
		"navigation": true,
		"route":      route,
		"decision":   decision,
		"role":       role,
	}).Debug("Navigation decision")
}

// HTTPRequest logs HTTP request events
func (l *Logger) HTTPRequest(method, path, clientIP string, statusCode int, durationMs int64) {
	entry := l.Logger.WithFields(logrus.Fields{
		"http_request": true,
		"method":       method,
		"path":         path,
		"client_ip":    clientIP,
		"status_code":  statusCode,
		"duration_ms":  durationMs,
	})

	if statusCode >= 400 {
		entry.Warn("HTTP request completed with error")
	} else {
		entry.Info("HTTP request completed")
	}
}
