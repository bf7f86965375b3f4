package transport

import (
	"encoding/json"

	applog "audioctl/internal/log"
)

// LoggingTransport implements the Transport interface by logging data as
// JSON.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Debugf("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the received data. Data that cannot be marshaled is logged with
// %+v instead.
func (lt *LoggingTransport) Send(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		applog.Infof("LOG_TRANSPORT: %T: %+v (JSON marshal error: %v)", data, data, err)
		return nil
	}
	applog.Infof("LOG_TRANSPORT: %s", jsonData)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	applog.Debugf("LOG_TRANSPORT: Close called.")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
