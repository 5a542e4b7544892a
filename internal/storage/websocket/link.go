package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/ufoai/geoscape/pkg/streaming"
)

const (
	outboxSize   = 256
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 10 * time.Second
)

// first reconnect delay, doubled per failed attempt
var reconnectDelay = time.Second

var errLinkClosed = errors.New("websocket link closed")

type ackKey struct {
	typ string
	id  string
}

// session is one socket. It is dropped once, by whichever loop fails first.
type session struct {
	conn *ws.Conn
	lost chan struct{}
	once sync.Once
}

func (s *session) drop() (first bool) {
	s.once.Do(func() {
		close(s.lost)
		_ = s.conn.Close()
		first = true
	})
	return first
}

// link is the client end of the save stream. A single pump goroutine writes
// to the socket; acks are handed to the request waiting for their type and
// id. A lost socket is redialed and the hello replayed.
type link struct {
	url    string
	log    *slog.Logger
	outbox chan []byte
	stop   chan struct{}

	mu      sync.Mutex
	current *session
	closed  bool
	hello   []byte
	waiters map[ackKey]chan streaming.AckMessage
}

func newLink(log *slog.Logger) *link {
	return &link{
		log:     log,
		outbox:  make(chan []byte, outboxSize),
		stop:    make(chan struct{}),
		waiters: make(map[ackKey]chan streaming.AckMessage),
	}
}

// open dials rawURL, passing the secret as query parameter.
func (l *link) open(rawURL, secret string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", secret)
	u.RawQuery = q.Encode()
	l.url = u.String()

	conn, _, err := ws.DefaultDialer.Dial(l.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	l.attach(conn)
	return nil
}

func (l *link) attach(conn *ws.Conn) {
	s := &session{conn: conn, lost: make(chan struct{})}
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()
	go l.pump(s)
	go l.listen(s)
}

func (l *link) pump(s *session) {
	for {
		select {
		case <-l.stop:
			return
		case <-s.lost:
			return
		case data := <-l.outbox:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				l.lose(s, err)
				return
			}
			if err := s.conn.WriteMessage(ws.TextMessage, data); err != nil {
				l.lose(s, err)
				return
			}
		}
	}
}

func (l *link) listen(s *session) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			l.lose(s, err)
			return
		}
		var ack streaming.AckMessage
		if err := json.Unmarshal(msg, &ack); err != nil || ack.Type != streaming.TypeAck {
			l.log.Debug("ignoring server message", "raw", string(msg))
			continue
		}
		l.deliver(ack)
	}
}

func (l *link) deliver(ack streaming.AckMessage) {
	key := ackKey{ack.For, ack.ID}
	l.mu.Lock()
	ch, ok := l.waiters[key]
	delete(l.waiters, key)
	l.mu.Unlock()
	if !ok {
		l.log.Debug("unexpected ack", "for", ack.For, "id", ack.ID)
		return
	}
	ch <- ack
}

func (l *link) lose(s *session, err error) {
	if !s.drop() {
		return
	}
	select {
	case <-l.stop:
		return
	default:
	}
	l.log.Warn("websocket connection lost", "error", err)
	go l.redial()
}

func (l *link) redial() {
	delay := reconnectDelay
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-l.stop:
			return
		case <-time.After(delay):
		}
		delay = min(2*delay, maxBackoff)

		conn, _, err := ws.DefaultDialer.Dial(l.url, nil)
		if err != nil {
			l.log.Warn("websocket redial failed", "attempt", attempt, "error", err)
			continue
		}
		l.mu.Lock()
		hello := l.hello
		l.mu.Unlock()
		if hello != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(ws.TextMessage, hello); err != nil {
				l.log.Warn("hello replay failed", "attempt", attempt, "error", err)
				_ = conn.Close()
				continue
			}
		}
		l.log.Info("websocket reconnected", "attempt", attempt)
		l.attach(conn)
		return
	}
	l.log.Error("websocket reconnect gave up", "attempts", maxReconnect)
}

// post queues data for the pump. It never blocks; false means the outbox
// is full.
func (l *link) post(data []byte) bool {
	select {
	case l.outbox <- data:
		return true
	default:
		l.log.Warn("websocket outbox full, dropping message")
		return false
	}
}

// request posts data and waits for the ack of (typ, id). An ack carrying an
// error fails the request.
func (l *link) request(data []byte, typ, id string, timeout time.Duration) error {
	key := ackKey{typ, id}
	ch := make(chan streaming.AckMessage, 1)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errLinkClosed
	}
	l.waiters[key] = ch
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		if l.waiters[key] == ch {
			delete(l.waiters, key)
		}
		l.mu.Unlock()
	}()

	if !l.post(data) {
		return fmt.Errorf("%s %q: outbox full", typ, id)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ack := <-ch:
		if ack.Error != "" {
			return fmt.Errorf("server rejected %s %q: %s", typ, id, ack.Error)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("timeout waiting for ack of %s %q", typ, id)
	case <-l.stop:
		return errLinkClosed
	}
}

// setHello remembers the message replayed after a reconnect.
func (l *link) setHello(data []byte) {
	l.mu.Lock()
	l.hello = data
	l.mu.Unlock()
}

// close says goodbye and stops every goroutine.
func (l *link) close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.stop)
	s := l.current
	l.mu.Unlock()

	if s == nil {
		return nil
	}
	_ = s.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
	s.drop()
	return nil
}
