package state

import "sync"

// Subscription delivers snapshots to one subscriber callback.
//
// Delivery runs on the subscription's own goroutine. Each subscription keeps
// only the newest undelivered snapshot, so a slow callback skips intermediate
// versions but never receives them out of order.
type Subscription struct {
	id    uint64
	store *Store
	fn    func(Snapshot)

	mu      sync.Mutex
	pending *Snapshot

	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Subscribe registers fn. fn is called with the current snapshot right away
// and then with every later one (subject to coalescing). Calls to fn for one
// subscription never overlap.
func (s *Store) Subscribe(fn func(Snapshot)) *Subscription {
	sub := &Subscription{
		store:   s,
		fn:      fn,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	s.mu.Lock()
	s.nextSub++
	sub.id = s.nextSub
	s.subs[sub.id] = sub
	sub.offer(s.current)
	count := len(s.subs)
	s.mu.Unlock()

	s.metrics.AddSubscribers(1)
	s.logger.Debug("split state subscriber added", "subscription", sub.id, "subscribers", count)

	go sub.run()
	return sub
}

// Close stops delivery. It is safe to call more than once and from inside
// the callback. A callback already running is allowed to finish.
func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub.id)
		sub.store.mu.Unlock()

		sub.store.metrics.AddSubscribers(-1)
		close(sub.done)
	})
}

// Done is closed once the delivery goroutine has exited.
func (sub *Subscription) Done() <-chan struct{} {
	return sub.stopped
}

// offer replaces the pending snapshot. Callers hold the store lock, so
// offers arrive in version order.
func (sub *Subscription) offer(snap Snapshot) {
	sub.mu.Lock()
	sub.pending = &snap
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) run() {
	defer close(sub.stopped)
	for {
		select {
		case <-sub.done:
			return
		case <-sub.wake:
		}

		sub.mu.Lock()
		snap := sub.pending
		sub.pending = nil
		sub.mu.Unlock()

		if snap == nil {
			continue
		}

		select {
		case <-sub.done:
			return
		default:
		}
		sub.fn(Snapshot{Version: snap.Version, Split: snap.Split.Clone()})
	}
}

// Close stops every subscription. The store stays usable.
func (s *Store) Close() {
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
