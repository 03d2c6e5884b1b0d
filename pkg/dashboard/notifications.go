package dashboard

import "dwellacore/pkg/domain"

// NotificationCenter tracks per-notification read state for one session. It
// is the only mutable piece of the engine and expects the single-threaded
// host documented in the package comment; it carries no lock.
//
// Notifications are keyed by their remote apiId. Read state is monotonic:
// once read, a notification stays read for the session, with Rollback as the
// sole, explicit inverse for a failed remote mark-read.
type NotificationCenter struct {
	order []string
	byAPI map[string]domain.Notification

	// badge is the displayed unread count. It moves optimistically with
	// local transitions and is overwritten whenever the server reports an
	// authoritative value; last write wins.
	badge int

	strict bool
}

// CenterOption configures a NotificationCenter.
type CenterOption func(*NotificationCenter)

// WithStrictMarkRead makes MarkRead fail on apiIds never received locally
// instead of ignoring them. Useful in tests and debug builds to surface
// bookkeeping bugs; production keeps the default because the remote source of
// truth may prune notifications the session never saw.
func WithStrictMarkRead() CenterOption {
	return func(c *NotificationCenter) { c.strict = true }
}

// NewNotificationCenter returns an empty center.
func NewNotificationCenter(opts ...CenterOption) *NotificationCenter {
	c := &NotificationCenter{byAPI: make(map[string]domain.Notification)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Receive inserts a notification by apiId. Receiving the same apiId again is
// idempotent: content fields refresh from the newer payload but a read flag
// already set locally is never reset by a stale delivery.
func (c *NotificationCenter) Receive(n domain.Notification) {
	existing, ok := c.byAPI[n.APIID]
	if ok {
		n.IsRead = n.IsRead || existing.IsRead
		c.byAPI[n.APIID] = n
		return
	}
	c.order = append(c.order, n.APIID)
	c.byAPI[n.APIID] = n
	if !n.IsRead {
		c.badge++
	}
}

// MarkRead sets isRead for the given apiIds and returns the ids that actually
// transitioned, in request order. Already-read ids are no-ops. Unknown ids
// are ignored unless the center is strict, in which case the first unknown id
// aborts with StaleMutationError before any state changes.
//
// The returned slice is the exact argument Rollback needs if the remote
// mark-read later fails.
func (c *NotificationCenter) MarkRead(apiIDs ...string) ([]string, error) {
	if c.strict {
		for _, id := range apiIDs {
			if _, ok := c.byAPI[id]; !ok {
				return nil, domain.StaleMutationError{APIID: id}
			}
		}
	}
	var changed []string
	for _, id := range apiIDs {
		n, ok := c.byAPI[id]
		if !ok || n.IsRead {
			continue
		}
		n.IsRead = true
		c.byAPI[id] = n
		changed = append(changed, id)
	}
	if c.badge -= len(changed); c.badge < 0 {
		c.badge = 0
	}
	return changed, nil
}

// MarkAllRead marks every currently-unread notification read and returns the
// transitioned ids in receive order.
func (c *NotificationCenter) MarkAllRead() []string {
	unread := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if !c.byAPI[id].IsRead {
			unread = append(unread, id)
		}
	}
	changed, _ := c.MarkRead(unread...)
	return changed
}

// Rollback restores the given apiIds to unread. It is the inverse of a
// MarkRead whose remote side failed: callers pass exactly the changed slice
// MarkRead returned, so every id here was unread before that call. Ids the
// session no longer knows are ignored.
func (c *NotificationCenter) Rollback(apiIDs []string) {
	for _, id := range apiIDs {
		n, ok := c.byAPI[id]
		if !ok || !n.IsRead {
			continue
		}
		n.IsRead = false
		c.byAPI[id] = n
		c.badge++
	}
}

// ReconcileUnreadCount overwrites the displayed unread count with the
// server-reported value. The server is authoritative for the badge; a
// concurrent unrelated notification can make it differ from the local
// cardinality, so no attempt is made to reconcile the two beyond last write
// wins.
func (c *NotificationCenter) ReconcileUnreadCount(serverCount int) {
	if serverCount < 0 {
		serverCount = 0
	}
	c.badge = serverCount
}

// UnreadCount returns the displayed badge count.
func (c *NotificationCenter) UnreadCount() int {
	return c.badge
}

// LocalUnreadCount counts locally-known unread notifications, ignoring any
// server-reported badge. Exposed for diagnostics and tests.
func (c *NotificationCenter) LocalUnreadCount() int {
	n := 0
	for _, id := range c.order {
		if !c.byAPI[id].IsRead {
			n++
		}
	}
	return n
}

// Get returns the notification for an apiId.
func (c *NotificationCenter) Get(apiID string) (domain.Notification, bool) {
	n, ok := c.byAPI[apiID]
	return n, ok
}

// List returns all notifications in receive order. The slice is fresh on
// every call; mutating it does not affect the center.
func (c *NotificationCenter) List() []domain.Notification {
	out := make([]domain.Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byAPI[id])
	}
	return out
}

// Len returns the number of locally-known notifications.
func (c *NotificationCenter) Len() int {
	return len(c.order)
}
