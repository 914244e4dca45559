package testutil

import (
	"context"
	"sync"

	"github.com/nexus-platform/nexus-monitor/internal/domain/alert"
	"github.com/nexus-platform/nexus-monitor/internal/domain/notification"
)

// MockSender is a mock implementation of notification.Sender
type MockSender struct {
	ChannelName notification.Channel
	SendError   error

	mu    sync.Mutex
	Sent  []*alert.Alert
	Calls int
}

func NewMockSender(channel notification.Channel) *MockSender {
	return &MockSender{ChannelName: channel}
}

func (m *MockSender) Channel() notification.Channel {
	return m.ChannelName
}

func (m *MockSender) Send(ctx context.Context, a *alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, a)
	return nil
}

// SentAlerts returns a copy of the successfully sent alerts
func (m *MockSender) SentAlerts() []*alert.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*alert.Alert, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// CallCount returns how many times Send was invoked
func (m *MockSender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mu         sync.Mutex
	Dispatched []*alert.Alert
	Records    []notification.Delivery
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, a *alert.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dispatched = append(m.Dispatched, a)
}

func (m *MockDispatcher) Deliveries() []notification.Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notification.Delivery, len(m.Records))
	copy(out, m.Records)
	return out
}

// DispatchedAlerts returns a copy of the dispatched alerts
func (m *MockDispatcher) DispatchedAlerts() []*alert.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*alert.Alert, len(m.Dispatched))
	copy(out, m.Dispatched)
	return out
}
