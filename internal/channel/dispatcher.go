package channel

import (
	"encoding/json"
	"fmt"
	"sync"

	"overlay-backend/pkg/logger"
)

// Handler 是协调器侧的消息入口。Notify 不产生应答，Call 恰好产生一次应答。
type Handler interface {
	Notify(name string, payload json.RawMessage) error
	Call(name string, payload json.RawMessage) (interface{}, error)
}

type kind int

const (
	kindNotify kind = iota
	kindCall
)

type callResult struct {
	reply interface{}
	err   error
}

type envelope struct {
	kind    kind
	name    string
	payload json.RawMessage
	done    chan callResult // kindCall 时非空
}

// Dispatcher 按来源界面维护独立的 FIFO 队列：同一界面发出的消息
// 严格按发出顺序投递并逐一应答；不同界面之间没有顺序保证。
type Dispatcher struct {
	handler Handler
	mu      sync.Mutex
	queues  map[string]chan envelope
	closed  bool
	wg      sync.WaitGroup
}

const queueDepth = 64

func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		queues:  make(map[string]chan envelope),
	}
}

func (d *Dispatcher) queueFor(surface string) chan envelope {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	queue, exists := d.queues[surface]
	if !exists {
		queue = make(chan envelope, queueDepth)
		d.queues[surface] = queue
		d.wg.Add(1)
		go d.drain(surface, queue)
	}
	return queue
}

func (d *Dispatcher) drain(surface string, queue chan envelope) {
	defer d.wg.Done()

	for env := range queue {
		switch env.kind {
		case kindNotify:
			if err := d.handler.Notify(env.name, env.payload); err != nil {
				logger.Warnf("Notification %s from %s failed: %v", env.name, surface, err)
			}
		case kindCall:
			reply, err := d.handler.Call(env.name, env.payload)
			env.done <- callResult{reply: reply, err: err}
		}
	}
}

// Notify 投递一条 fire-and-forget 通知
func (d *Dispatcher) Notify(surface, name string, payload json.RawMessage) error {
	queue := d.queueFor(surface)
	if queue == nil {
		return fmt.Errorf("dispatcher closed")
	}

	queue <- envelope{kind: kindNotify, name: name, payload: payload}
	return nil
}

// Call 投递一次调用并阻塞等待唯一应答
func (d *Dispatcher) Call(surface, name string, payload json.RawMessage) (interface{}, error) {
	queue := d.queueFor(surface)
	if queue == nil {
		return nil, fmt.Errorf("dispatcher closed")
	}

	done := make(chan callResult, 1)
	queue <- envelope{kind: kindCall, name: name, payload: payload, done: done}
	result := <-done
	return result.reply, result.err
}

// Close 停止接收新消息并等待在途消息处理完毕
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, queue := range d.queues {
		close(queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
