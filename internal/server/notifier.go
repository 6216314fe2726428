// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package server

import "sync"

// notifier broadcasts reload pings to live reload subscribers.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel receiving one ping per page swap.
// Callers must Unsubscribe.
func (n *notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (n *notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings all listeners; a listener with a pending ping is skipped.
func (n *notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (n *notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.listeners)
}
