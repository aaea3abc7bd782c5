package types

import (
	"github.com/manty98/lakdi/internal/protocol"
)

// ClientInterface is the delivery primitive the core needs from the
// transport: an opaque identity plus unicast send. Bot seats have no
// client at all.
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// ServerInterface breaks the server <-> handler import cycle.
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}
