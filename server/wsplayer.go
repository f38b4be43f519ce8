package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/cadena/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 32
)

var (
	ErrConnClosed = errors.New("connection closed")
	ErrSlowReader = errors.New("player is not keeping up, message dropped")
)

// wsPlayer is a seated player's websocket connection
type wsPlayer struct {
	id     string
	conn   *websocket.Conn
	logger *zap.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSPlayer(id string, ws *websocket.Conn, logger *zap.Logger) *wsPlayer {
	return &wsPlayer{
		id:     id,
		conn:   ws,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send queues msg without blocking, since rooms call it while holding their lock
func (p *wsPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-p.done:
		return ErrConnClosed
	default:
	}

	select {
	case p.send <- data:
		return nil
	default:
		return ErrSlowReader
	}
}

func (p *wsPlayer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// readPump decodes inbound messages and hands them to dispatch until the peer goes away
func (p *wsPlayer) readPump(dispatch func(protocol.InboundMessage)) {
	defer p.close()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Warn("websocket closed unexpectedly", zap.String("player_id", p.id), zap.Error(err))
			}
			return
		}

		var msg protocol.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			p.Send(protocol.NewErrorMessage(p.id, errors.New("could not read message")))
			continue
		}
		dispatch(msg)
	}
}

func (p *wsPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				p.close()
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.close()
				return
			}

		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.flush()
			p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// flush writes whatever is still queued
func (p *wsPlayer) flush() {
	for {
		select {
		case msg := <-p.send:
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}
