package channel

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	names []string
}

func (h *recordingHandler) Notify(name string, _ json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
	return nil
}

func (h *recordingHandler) Call(name string, _ json.RawMessage) (interface{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
	return "reply:" + name, nil
}

func (h *recordingHandler) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

func TestDispatcherPreservesOrderPerSurface(t *testing.T) {
	handler := &recordingHandler{}
	d := NewDispatcher(handler)

	for i := 0; i < 20; i++ {
		require.NoError(t, d.Notify("overlay", fmt.Sprintf("msg-%d", i), nil))
	}
	// Call 排在同一队列尾部，应答返回时前面的通知必然已处理完
	reply, err := d.Call("overlay", "final", nil)
	require.NoError(t, err)
	assert.Equal(t, "reply:final", reply)

	names := handler.recorded()
	require.Len(t, names, 21)
	for i := 0; i < 20; i++ {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), names[i])
	}
	assert.Equal(t, "final", names[20])

	d.Close()
}

func TestDispatcherIsolatesSurfaces(t *testing.T) {
	handler := &recordingHandler{}
	d := NewDispatcher(handler)

	var wg sync.WaitGroup
	for _, surface := range []string{"main", "overlay"} {
		wg.Add(1)
		go func(surface string) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := d.Call(surface, fmt.Sprintf("%s-%d", surface, i), nil)
				assert.NoError(t, err)
			}
		}(surface)
	}
	wg.Wait()

	// 每个界面内部保持发出顺序
	var mainSeen, overlaySeen int
	for _, name := range handler.recorded() {
		switch {
		case len(name) > 5 && name[:5] == "main-":
			assert.Equal(t, fmt.Sprintf("main-%d", mainSeen), name)
			mainSeen++
		default:
			assert.Equal(t, fmt.Sprintf("overlay-%d", overlaySeen), name)
			overlaySeen++
		}
	}
	assert.Equal(t, 10, mainSeen)
	assert.Equal(t, 10, overlaySeen)

	d.Close()
}

type failingHandler struct {
	recordingHandler
}

func (h *failingHandler) Notify(name string, _ json.RawMessage) error {
	return fmt.Errorf("handler failure for %s", name)
}

func TestDispatcherSurvivesNotifyErrors(t *testing.T) {
	handler := &failingHandler{}
	d := NewDispatcher(handler)

	require.NoError(t, d.Notify("main", "will-fail", nil))

	// 失败的通知不阻塞后续调用
	reply, err := d.Call("main", "still-works", nil)
	require.NoError(t, err)
	assert.Equal(t, "reply:still-works", reply)

	d.Close()
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingHandler{})
	d.Close()

	assert.Error(t, d.Notify("main", "late", nil))
	_, err := d.Call("main", "late", nil)
	assert.Error(t, err)
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()

	first, cancelFirst := b.Subscribe()
	second, cancelSecond := b.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish("overlay:update-content", "hello")

	for _, events := range []<-chan Event{first, second} {
		select {
		case event := <-events:
			assert.Equal(t, "overlay:update-content", event.Name)
			assert.Equal(t, "hello", event.Payload)
		case <-time.After(time.Second):
			t.Fatal("expected event delivery")
		}
	}
}

func TestBroadcasterDropsOldestWhenSlow(t *testing.T) {
	b := NewBroadcaster()

	events, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < eventBuffer+5; i++ {
		b.Publish("tick", i)
	}

	var received []interface{}
	for {
		select {
		case event := <-events:
			received = append(received, event.Payload)
			continue
		default:
		}
		break
	}

	require.Len(t, received, eventBuffer)
	// 最新事件从不丢失
	assert.Equal(t, eventBuffer+4, received[len(received)-1])
}

func TestBroadcasterCancelRemovesSubscriber(t *testing.T) {
	b := NewBroadcaster()

	_, cancel := b.Subscribe()
	cancel()
	cancel() // 重复取消是安全的

	assert.Equal(t, 0, b.SubscriberCount())
}
