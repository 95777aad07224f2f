package ws_test

import (
	"encoding/json"
	"testing"

	"github.com/MaxonPy/kanban/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifier_BroadcastDeliversToAllSubscribers(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	notifier := ws.NewNotifier(registry, zap.NewNop())

	first, firstPeer := dialPair(t)
	second, secondPeer := dialPair(t)
	registry.Register(first)
	registry.Register(second)

	event := ws.NewEvent(ws.EventNewTask, 5, 7)

	// Act
	notifier.Broadcast(event)

	// Assert: оба подписчика получают одинаковое событие
	for _, peer := range []*websocket.Conn{firstPeer, secondPeer} {
		_, data, err := peer.ReadMessage()
		require.NoError(t, err)

		var got ws.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, ws.EventNewTask, got.Event)
		assert.Equal(t, uint(5), got.UserID)
		assert.Equal(t, uint(7), got.TaskID)
		assert.NotZero(t, got.Timestamp)
	}
	assert.Equal(t, 2, registry.Len())
}

func TestNotifier_PrunesFailedSubscribers(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	notifier := ws.NewNotifier(registry, zap.NewNop())

	healthy, healthyPeer := dialPair(t)
	dead, _ := dialPair(t)
	registry.Register(healthy)
	registry.Register(dead)

	// Обрываем соединение со стороны сервера, чтобы отправка гарантированно упала
	require.NoError(t, dead.Close())

	// Act
	notifier.Broadcast(ws.NewEvent(ws.EventDeleteTask, 2, 10))

	// Assert: живой подписчик получил событие, мертвый удален из реестра
	_, data, err := healthyPeer.ReadMessage()
	require.NoError(t, err)

	var got ws.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ws.EventDeleteTask, got.Event)

	assert.Equal(t, 1, registry.Len())
}

func TestNotifier_BroadcastWithEmptyRegistry(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	notifier := ws.NewNotifier(registry, zap.NewNop())

	// Act / Assert: рассылка без подписчиков не паникует
	notifier.Broadcast(ws.NewEvent(ws.EventUpdateStatus, 1, 1))
	assert.Equal(t, 0, registry.Len())
}

func TestEvent_StatusFieldsOmittedWhenEmpty(t *testing.T) {
	// Arrange
	event := ws.NewEvent(ws.EventNewTask, 5, 7)

	// Act
	data, err := json.Marshal(event)
	require.NoError(t, err)

	// Assert: для new_task поля статусов отсутствуют в полезной нагрузке
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "status")
	assert.NotContains(t, raw, "old_status")
	assert.Contains(t, raw, "timestamp")
}
