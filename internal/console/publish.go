package console

import (
	"context"

	"github.com/dmitrijs2005/gophattach/internal/console/notifyhub"
	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
)

// PublishItems returns a gallery items observer that pushes snapshots to hub.
func PublishItems(hub *notifyhub.Hub, logger logging.Logger) func([]media.Item) {
	return func(items []media.Item) {
		if err := hub.Broadcast(notifyhub.Event{Type: notifyhub.EventItems, Data: toItemDTOs(items)}); err != nil {
			logger.Warn(context.Background(), "failed to publish items", "error", err)
		}
	}
}

// PublishImages returns a gallery images observer that pushes the completed
// URL list to hub.
func PublishImages(hub *notifyhub.Hub, logger logging.Logger) func([]string) {
	return func(urls []string) {
		if err := hub.Broadcast(notifyhub.Event{Type: notifyhub.EventImages, Data: urls}); err != nil {
			logger.Warn(context.Background(), "failed to publish images", "error", err)
		}
	}
}
