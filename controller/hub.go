package controller

import "sync"

// subscriberBuffer is how many turns a slow subscriber may fall behind
// before turns are dropped for it.
const subscriberBuffer = 16

// hub fans decided turns out to subscribers of a game.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan *Turn]struct{}
}

func newHub() *hub {
	return &hub{subs: map[string]map[chan *Turn]struct{}{}}
}

// subscribe returns a channel of turns for the game and a func releasing it.
// The channel is closed when the game ends or the subscription is released.
func (h *hub) subscribe(id string) (<-chan *Turn, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan *Turn, subscriberBuffer)
	if h.subs[id] == nil {
		h.subs[id] = map[chan *Turn]struct{}{}
	}
	h.subs[id][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[id][ch]; ok {
				delete(h.subs[id], ch)
				close(ch)
			}
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
		})
	}
}

func (h *hub) publish(id string, t *Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[id] {
		select {
		case ch <- t:
		default:
		}
	}
}

// closeGame ends every subscription to the game.
func (h *hub) closeGame(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[id] {
		close(ch)
	}
	delete(h.subs, id)
}
