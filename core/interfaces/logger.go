package interfaces

// Logger defines the interface for logging throughout the application.
// This abstraction keeps the core independent of the logging backend (logrus today).
//
// Example usage:
//
//	logger.Info("Article loaded", map[string]interface{}{
//		"url":        "https://example.com/post",
//		"generation": 3,
//	})
//
//	logger.Error("Fetch failed", map[string]interface{}{
//		"url":   "https://example.com/post",
//		"error": err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Warning messages indicate potential issues that don't prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}
