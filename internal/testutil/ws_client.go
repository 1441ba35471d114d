package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dom/riot-collector/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket subscriber
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	done     chan struct{}
}

// NewWSClient connects to url and starts reading messages
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 16),
		done:     make(chan struct{}),
	}
	go client.readPump()

	t.Cleanup(client.Close)
	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// WaitForMessage returns the next message of msgType, failing the test
// after timeout
func (c *WSClient) WaitForMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
				return nil
			}
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s", msgType)
			return nil
		}
	}
}

// Close closes the connection
func (c *WSClient) Close() {
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.conn.Close()
}
