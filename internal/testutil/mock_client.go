package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/types"
)

var (
	_ types.ClientInterface = (*MockClient)(nil)
	_ types.ClientInterface = (*FakeClient)(nil)
)

// MockClient is a testify mock of the transport client, for tests that
// assert on exact call expectations.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	return m.Called().String(0)
}

func (m *MockClient) GetName() string {
	return m.Called().String(0)
}

func (m *MockClient) SetName(name string) {
	m.Called(name)
}

func (m *MockClient) GetRoom() string {
	return m.Called().String(0)
}

func (m *MockClient) SetRoom(code string) {
	m.Called(code)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// FakeClient is a recording client for game-flow tests: it accepts
// everything and keeps the messages for inspection.
type FakeClient struct {
	ID   string
	Name string

	mu       sync.Mutex
	room     string
	messages []*protocol.Message
	closed   bool
}

func NewFakeClient(id, name string) *FakeClient {
	return &FakeClient{ID: id, Name: name}
}

func (c *FakeClient) GetID() string { return c.ID }

func (c *FakeClient) GetName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Name
}

func (c *FakeClient) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

func (c *FakeClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *FakeClient) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = code
}

func (c *FakeClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *FakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *FakeClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages returns a copy of everything sent so far.
func (c *FakeClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*protocol.Message(nil), c.messages...)
}

// LastOfType returns the most recent message of a type, or nil.
func (c *FakeClient) LastOfType(t protocol.MessageType) *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Type == t {
			return c.messages[i]
		}
	}
	return nil
}

// CountOfType returns how many messages of a type were sent.
func (c *FakeClient) CountOfType(t protocol.MessageType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.Type == t {
			n++
		}
	}
	return n
}
