// Package eventbus distributes pipeline progress events. Publishers fire
// and forget; subscribers (logging, the HTTP status surface) attach without
// the pipeline knowing about them.
package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

var (
	instance evbus.Bus
	asyncBus *AsyncEventBus
	once     sync.Once
)

// Get returns the process-wide synchronous bus.
func Get() evbus.Bus {
	once.Do(initBuses)
	return instance
}

// GetAsync returns the process-wide worker-pool bus.
func GetAsync() *AsyncEventBus {
	once.Do(initBuses)
	return asyncBus
}

func initBuses() {
	instance = New()
	asyncBus = NewAsyncEventBus(4)
	asyncBus.Start()
}

// New creates an independent synchronous bus.
func New() evbus.Bus {
	return evbus.New()
}

// Publish delivers an event synchronously to every subscriber.
func Publish(topic string, args ...interface{}) {
	Get().Publish(topic, args...)
}

// PublishAsync queues an event for worker delivery. Progress reporting must
// never stall the pipeline, so a full queue drops the event.
func PublishAsync(topic string, args ...interface{}) {
	GetAsync().PublishAsync(topic, args...)
}

// Subscribe registers a synchronous handler.
func Subscribe(topic string, fn interface{}) error {
	return Get().Subscribe(topic, fn)
}

// SubscribeAsync registers a handler on the worker-pool bus.
func SubscribeAsync(topic string, fn interface{}) error {
	return GetAsync().SubscribeAsync(topic, fn)
}

// Shutdown stops the async workers. Safe to call once at process exit.
func Shutdown() {
	if asyncBus != nil {
		asyncBus.Stop()
	}
}
