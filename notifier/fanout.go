package notifier

import (
	"context"

	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/services"
)

// Fanout delivers each notification to every sink in order.
type Fanout []services.Notifier

func (f Fanout) Notify(ctx context.Context, note models.Notification) {
	for _, n := range f {
		n.Notify(ctx, note)
	}
}
