// Package ws is the WebSocket session layer: a process-wide connection
// table with named groups, plus the per-connection message loop that
// drives the assistant pipeline.
package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chatbuff.app/backend/common/logger"
)

// ErrSendFailure marks a failed delivery to a client. The client is
// disconnected as a side effect; callers usually only log this.
var ErrSendFailure = errors.New("session send failure")

// State is a session's lifecycle phase. DISCONNECTED is terminal.
type State string

const (
	StateConnected    State = "connected"
	StateActive       State = "active"
	StateDisconnected State = "disconnected"
)

// Conn is the outbound half of a client connection. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type clientSession struct {
	id          string
	conn        Conn
	connectedAt time.Time

	// writeMu serializes frames on the socket; gorilla connections do
	// not support concurrent writers.
	writeMu sync.Mutex

	mu    sync.Mutex
	state State
}

func (c *clientSession) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *clientSession) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *clientSession) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Manager owns the connection table and group memberships. All maps are
// guarded by one mutex; per-socket writes happen outside it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*clientSession
	groups   map[string]map[string]struct{}
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*clientSession),
		groups:   make(map[string]map[string]struct{}),
	}
}

// Connect registers a client, sends the welcome event, and activates
// the session. A failed welcome tears the session down again.
func (m *Manager) Connect(ctx context.Context, clientID string, conn Conn) error {
	cs := &clientSession{
		id:          clientID,
		conn:        conn,
		connectedAt: time.Now(),
		state:       StateConnected,
	}

	m.mu.Lock()
	if prev, ok := m.sessions[clientID]; ok {
		m.mu.Unlock()
		m.Disconnect(ctx, prev.id)
		m.mu.Lock()
	}
	m.sessions[clientID] = cs
	m.mu.Unlock()

	if err := cs.write(connectedEvent(clientID)); err != nil {
		m.Disconnect(ctx, clientID)
		return fmt.Errorf("%w: welcome to %s: %v", ErrSendFailure, clientID, err)
	}
	cs.setState(StateActive)

	slog.InfoContext(ctx, "client connected",
		"client_id", clientID,
		"active", m.ActiveCount())
	return nil
}

// Disconnect moves a session to DISCONNECTED, drops it from the table
// and every group, and closes the socket. Safe to call twice.
func (m *Manager) Disconnect(ctx context.Context, clientID string) {
	m.mu.Lock()
	cs, ok := m.sessions[clientID]
	if ok {
		delete(m.sessions, clientID)
		for name, members := range m.groups {
			delete(members, clientID)
			if len(members) == 0 {
				delete(m.groups, name)
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	cs.setState(StateDisconnected)
	_ = cs.conn.Close()

	slog.InfoContext(ctx, "client disconnected",
		"client_id", clientID,
		"connected_for", time.Since(cs.connectedAt).Round(time.Millisecond).String())
}

// SendToClient delivers one event. A missing or inactive session is a
// no-op; a write failure disconnects the session and reports
// ErrSendFailure.
func (m *Manager) SendToClient(ctx context.Context, clientID string, event ServerEvent) error {
	_, err := m.send(ctx, clientID, event)
	return err
}

// send writes one event and reports whether the frame actually went
// out. The bool distinguishes a real delivery from the silent no-op on
// missing or not-yet-active sessions.
func (m *Manager) send(ctx context.Context, clientID string, event ServerEvent) (bool, error) {
	m.mu.Lock()
	cs, ok := m.sessions[clientID]
	m.mu.Unlock()

	if !ok || cs.currentState() != StateActive {
		return false, nil
	}

	if err := cs.write(event); err != nil {
		m.Disconnect(ctx, clientID)
		slog.WarnContext(ctx, "send failed, client dropped",
			"client_id", clientID,
			"event", event.Type,
			"error", err)
		return false, fmt.Errorf("%w: %s to %s: %v", ErrSendFailure, event.Type, clientID, err)
	}
	return true, nil
}

// Broadcast delivers an event to every active session except the
// excluded ids. Individual failures disconnect that session only.
// Returns the number of successful deliveries.
func (m *Manager) Broadcast(ctx context.Context, event ServerEvent, exclude ...string) int {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	m.mu.Lock()
	targets := make([]*clientSession, 0, len(m.sessions))
	for id, cs := range m.sessions {
		if _, ok := skip[id]; ok {
			continue
		}
		targets = append(targets, cs)
	}
	m.mu.Unlock()

	delivered := 0
	for _, cs := range targets {
		if cs.currentState() != StateActive {
			continue
		}
		if err := cs.write(event); err != nil {
			m.Disconnect(ctx, cs.id)
			slog.WarnContext(ctx, "broadcast send failed, client dropped",
				"client_id", cs.id,
				"event", event.Type,
				"error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// JoinGroup adds a connected client to a named group. Unknown clients
// are ignored.
func (m *Manager) JoinGroup(group, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[clientID]; !ok {
		return
	}
	members, ok := m.groups[group]
	if !ok {
		members = make(map[string]struct{})
		m.groups[group] = members
	}
	members[clientID] = struct{}{}
}

// LeaveGroup removes a client from a group, dropping the group once
// empty.
func (m *Manager) LeaveGroup(group, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.groups[group]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(m.groups, group)
	}
}

// SendToGroup delivers an event to every member of a group. Failure
// semantics match Broadcast. Returns the number of deliveries.
func (m *Manager) SendToGroup(ctx context.Context, group string, event ServerEvent) int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.groups[group]))
	for id := range m.groups[group] {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	delivered := 0
	for _, id := range ids {
		if ok, _ := m.send(ctx, id, event); ok {
			delivered++
		}
	}
	return delivered
}

// ActiveCount returns the number of active sessions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, cs := range m.sessions {
		if cs.currentState() == StateActive {
			n++
		}
	}
	return n
}

// ClientIDs returns a snapshot of the connected client ids.
func (m *Manager) ClientIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// GroupMembers returns a snapshot of one group's membership.
func (m *Manager) GroupMembers(group string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.groups[group]))
	for id := range m.groups[group] {
		ids = append(ids, id)
	}
	return ids
}

// clientContext tags log records emitted on behalf of one client.
func clientContext(ctx context.Context, clientID string) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{
		ClientID:  logger.Ptr(clientID),
		Component: "chatbuff.ws",
	})
}
