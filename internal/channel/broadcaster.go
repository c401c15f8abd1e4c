package channel

import (
	"sync"
)

// Event 是协调器推送给 UI 界面的单条事件
type Event struct {
	Name    string      `json:"name"`
	Payload interface{} `json:"payload"`
}

// Broadcaster 把协调器事件扇出给所有已订阅的 UI 界面。
// 订阅方消费过慢时丢弃最旧事件，事件只描述最新状态，丢失可以容忍。
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

const eventBuffer = 16

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan Event),
	}
}

func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	events := make(chan Event, eventBuffer)
	b.subs[id] = events

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, exists := b.subs[id]; exists {
			delete(b.subs, id)
			close(events)
		}
	}

	return events, cancel
}

func (b *Broadcaster) Publish(name string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, events := range b.subs {
		select {
		case events <- Event{Name: name, Payload: payload}:
		default:
			// 腾出一个位置再放入最新事件
			select {
			case <-events:
			default:
			}
			select {
			case events <- Event{Name: name, Payload: payload}:
			default:
			}
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
