package gameserver

import (
	"errors"
	"net"
	"sync"

	"github.com/udisondev/drawguess/internal/constants"
)

// ErrServerFull reports that every client slot is taken.
var ErrServerFull = errors.New("no free client slot")

// ClientManager owns the global client slot table. Slot index is the wire
// client id, so ids are stable for the lifetime of a connection and reused
// after disconnect.
type ClientManager struct {
	mu    sync.RWMutex
	slots [constants.MaxClients]*Client
}

// NewClientManager creates an empty slot table.
func NewClientManager() *ClientManager {
	return &ClientManager{}
}

// Allocate seats conn in the lowest free slot. Returns ErrServerFull when
// all slots are taken; the caller closes the connection.
func (cm *ClientManager) Allocate(conn net.Conn) (*Client, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for i := range cm.slots {
		if cm.slots[i] == nil {
			c := newClient(byte(i), conn)
			cm.slots[i] = c
			return c, nil
		}
	}
	return nil, ErrServerFull
}

// Release frees the slot. The caller is responsible for closing the
// connection and cleaning room membership.
func (cm *ClientManager) Release(id byte) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if int(id) < len(cm.slots) {
		cm.slots[id] = nil
	}
}

// Get returns the client in the slot, or nil.
func (cm *ClientManager) Get(id byte) *Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if int(id) >= len(cm.slots) {
		return nil
	}
	return cm.slots[id]
}

// Count returns the number of occupied slots.
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	n := 0
	for _, c := range cm.slots {
		if c != nil {
			n++
		}
	}
	return n
}
