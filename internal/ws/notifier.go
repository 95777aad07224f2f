package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/MaxonPy/kanban/internal/metrics"
)

// Notifier delivers task events to every registered subscriber, best-effort.
// A failed send drops that subscriber and never aborts the sweep.
type Notifier struct {
	registry *Registry
	log      *zap.Logger
}

func NewNotifier(registry *Registry, log *zap.Logger) *Notifier {
	return &Notifier{
		registry: registry,
		log:      log,
	}
}

// Broadcast sends the event to every live connection, pruning dead ones
// after the sweep. Delivery failures are contained here and never surface
// to the caller.
func (n *Notifier) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		n.log.Error("failed to marshal task event", zap.Error(err))
		return
	}

	var failed []*Client
	for _, client := range n.registry.Snapshot() {
		if err := client.Send(data); err != nil {
			n.log.Warn("failed to deliver task event",
				zap.String("event", event.Event),
				zap.Uint("task_id", event.TaskID),
				zap.Error(err))
			metrics.NotificationsFailed.Inc()
			failed = append(failed, client)
			continue
		}
		metrics.NotificationsSent.Inc()
	}

	for _, client := range failed {
		client.Close()
		n.registry.Unregister(client)
	}

	if len(failed) > 0 {
		n.log.Info("removed disconnected subscribers",
			zap.Int("removed", len(failed)),
			zap.Int("remaining", n.registry.Len()))
	}
}
