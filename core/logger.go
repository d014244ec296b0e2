package core

// Logger is any service that can log/report messages.
// expected args: error | map[string]interface{} | Session
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Session identifies the import session a log entry belongs to.
type Session string

// DefaultSession is used when a client does not send a session key.
const DefaultSession Session = "default"

// CleanSession normalizes a client supplied session key.
func CleanSession(key string) Session {
	key = CleanString(key)
	if key == "" {
		return DefaultSession
	}
	return Session(key)
}
