package mock

import (
	"sync"

	"pro_market/internal/core"
)

// Logger is a no-op core.ILogger for tests
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Debug(msg string, fields ...interface{})          {}
func (l *Logger) Info(msg string, fields ...interface{})           {}
func (l *Logger) Warn(msg string, fields ...interface{})           {}
func (l *Logger) Error(msg string, fields ...interface{})          {}
func (l *Logger) Fatal(msg string, fields ...interface{})          {}
func (l *Logger) WithField(key string, v interface{}) core.ILogger { return l }
func (l *Logger) WithFields(f map[string]interface{}) core.ILogger { return l }

// Notifier records pushed notifications instead of scheduling expiry
type Notifier struct {
	mu     sync.Mutex
	nextID int64
	Pushed []core.Notification
}

func NewNotifier() *Notifier { return &Notifier{} }

func (n *Notifier) Push(message string, severity core.Severity) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.Pushed = append(n.Pushed, core.Notification{
		ID:       n.nextID,
		Message:  message,
		Severity: severity,
	})
	return n.nextID
}

func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.Pushed {
		if n.Pushed[i].ID == id {
			n.Pushed = append(n.Pushed[:i], n.Pushed[i+1:]...)
			return
		}
	}
}

func (n *Notifier) Active() []core.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]core.Notification, len(n.Pushed))
	copy(out, n.Pushed)
	return out
}

// Messages returns the pushed message texts in order
func (n *Notifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Pushed))
	for _, p := range n.Pushed {
		out = append(out, p.Message)
	}
	return out
}

// Creds is a fixed credential source
type Creds struct {
	Cred core.Credential
}

func (c *Creds) Get() core.Credential { return c.Cred }
