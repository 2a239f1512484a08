package gameserver

import (
	"fmt"
	"net"
	"sync"
	"time"
)

const defaultWriteTimeout = 5 * time.Second

// Client is one connected session. The id doubles as the wire client id and
// is attributed by connection on the stream; the datagram address is latched
// separately from whatever source the client's datagrams arrive on.
type Client struct {
	id   byte
	conn net.Conn
	ip   string

	writeMu sync.Mutex // serializes whole frames onto the stream

	mu       sync.Mutex
	nickname string
	udpAddr  *net.UDPAddr

	closeOnce sync.Once
}

func newClient(id byte, conn net.Conn) *Client {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	return &Client{id: id, conn: conn, ip: host}
}

// ID returns the slot id assigned to this session.
func (c *Client) ID() byte {
	return c.id
}

// IP returns the client's remote IP address.
func (c *Client) IP() string {
	return c.ip
}

// Nickname returns the nickname set by JOIN, or "" before one arrives.
func (c *Client) Nickname() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nickname
}

// SetNickname stores the JOIN nickname.
func (c *Client) SetNickname(nick string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nickname = nick
}

// UDPAddr returns the latched datagram address, or nil when none latched yet.
func (c *Client) UDPAddr() *net.UDPAddr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.udpAddr
}

// SetUDPAddr latches the datagram source address. Every inbound datagram
// re-latches, so a NAT rebind self-heals on the next stroke.
func (c *Client) SetUDPAddr(addr *net.UDPAddr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.udpAddr = addr
}

// Send writes one complete frame to the stream under a write deadline.
func (c *Client) Send(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}
