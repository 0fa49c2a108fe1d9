package commands

import (
	"sync"

	"github.com/battlesnakeio/zerocool/controller"
)

// turnHolder collects the turns of a watched game as they arrive.
type turnHolder struct {
	sync.RWMutex
	turns []*controller.Turn
	seen  map[int]bool
	ftc   chan *controller.Turn
}

func newTurnHolder() *turnHolder {
	return &turnHolder{
		seen: map[int]bool{},
		ftc:  make(chan *controller.Turn, 1),
	}
}

// append adds a turn. Turns already held are ignored, so the recorded turns
// and the live stream may overlap.
func (th *turnHolder) append(turn *controller.Turn) {
	th.Lock()
	defer th.Unlock()

	if turn == nil || turn.Snapshot == nil || th.seen[turn.Turn] {
		return
	}
	th.seen[turn.Turn] = true
	if len(th.turns) == 0 {
		th.ftc <- turn
		close(th.ftc)
	}
	th.turns = append(th.turns, turn)
}

func (th *turnHolder) get(index int) *controller.Turn {
	th.RLock()
	defer th.RUnlock()

	if index < 0 || index >= len(th.turns) {
		return nil
	}
	return th.turns[index]
}

func (th *turnHolder) initialTurn() <-chan *controller.Turn {
	return th.ftc
}

func (th *turnHolder) count() int {
	th.RLock()
	defer th.RUnlock()

	return len(th.turns)
}
