package media

import "sync"

// Listeners is a set of subscribed Listeners. The zero value is ready to use.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]Listener
	order  []int
}

// Add registers l and returns a function that removes it.
func (ls *Listeners) Add(l Listener) (cancel func()) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.byID == nil {
		ls.byID = make(map[int]Listener)
	}
	id := ls.nextID
	ls.nextID++
	ls.byID[id] = l
	ls.order = append(ls.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { ls.remove(id) })
	}
}

func (ls *Listeners) remove(id int) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	delete(ls.byID, id)
	for i, v := range ls.order {
		if v == id {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
}

// Emit delivers e to every listener in subscription order.
// It must not be called with any resource lock held.
func (ls *Listeners) Emit(e Event) {
	ls.mu.Lock()
	targets := make([]Listener, 0, len(ls.order))
	for _, id := range ls.order {
		targets = append(targets, ls.byID[id])
	}
	ls.mu.Unlock()

	for _, l := range targets {
		l(e)
	}
}

// Clear removes every listener.
func (ls *Listeners) Clear() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.byID = nil
	ls.order = nil
}

// Len returns the number of subscribed listeners.
func (ls *Listeners) Len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.order)
}
