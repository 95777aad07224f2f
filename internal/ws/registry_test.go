package ws_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MaxonPy/kanban/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialPair opens a real websocket connection through httptest and returns
// both ends: the server-side client and the peer connection.
func dialPair(t *testing.T) (*ws.Client, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		connCh <- conn
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	serverConn := <-connCh
	return ws.NewClient(serverConn), peer
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	client, _ := dialPair(t)

	// Act / Assert
	registry.Register(client)
	assert.Equal(t, 1, registry.Len())

	registry.Unregister(client)
	assert.Equal(t, 0, registry.Len())

	// Повторное удаление — no-op
	registry.Unregister(client)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	first, _ := dialPair(t)
	second, _ := dialPair(t)
	registry.Register(first)
	registry.Register(second)

	// Act
	snapshot := registry.Snapshot()
	registry.Unregister(first)

	// Assert: снимок не зависит от последующих изменений реестра
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()

	clients := make([]*ws.Client, 10)
	for i := range clients {
		clients[i], _ = dialPair(t)
	}

	// Act: регистрация, снимки и удаление из разных горутин
	var wg sync.WaitGroup
	for _, client := range clients {
		wg.Add(1)
		go func(c *ws.Client) {
			defer wg.Done()
			registry.Register(c)
			registry.Snapshot()
			registry.Unregister(c)
		}(client)
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_CloseDrainsClients(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	client, peer := dialPair(t)
	registry.Register(client)

	// Act
	registry.Close()

	// Assert
	assert.Equal(t, 0, registry.Len())

	// Соединение закрыто со стороны сервера
	_, _, err := peer.ReadMessage()
	assert.Error(t, err)
}
