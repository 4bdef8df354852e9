package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/model"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1 << 20
)

// Conn is the client end of a game server connection. Incoming messages are
// decoded on a dedicated goroutine and delivered through Messages, which is
// closed when the connection ends.
type Conn struct {
	ws       *websocket.Conn
	Messages chan model.ServerMessage
	done     chan struct{}
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	ws.SetReadLimit(maxMessageSize)
	c := &Conn{ws: ws, Messages: make(chan model.ServerMessage, 64), done: make(chan struct{})}
	go c.loopRead()
	return c, nil
}

func (c *Conn) loopRead() {
	defer close(c.Messages)
	for {
		_, b, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("connection lost: %v", err)
			}
			return
		}
		m, err := model.DecodeServerMessage(b)
		if err != nil {
			log.Warnf("ignoring message: %v", err)
			continue
		}
		select {
		case c.Messages <- m:
		case <-c.done:
			return
		}
	}
}

// Send writes one message. It must not be called concurrently.
func (c *Conn) Send(m model.ClientMessage) error {
	b, err := model.EncodeClientMessage(m)
	if err != nil {
		return err
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

func (c *Conn) Close() error {
	close(c.done)
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}
