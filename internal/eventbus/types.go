package eventbus

import "time"

// Topic is a routing key events are published under.
type Topic string

// TopicWildcard subscribes a handler to every event regardless of topic.
const TopicWildcard Topic = "*"

const (
	TopicTask   Topic = "agent.task"
	TopicStep   Topic = "agent.step"
	TopicAction Topic = "agent.action"
	TopicStuck  Topic = "agent.stuck"
	TopicError  Topic = "agent.error"
)

// Event is a message passed through the event bus. Topic is the routing key;
// Name describes the event kind and never affects routing.
type Event struct {
	Topic     Topic
	Name      string
	Payload   any
	Timestamp time.Time
}

// NewEvent creates an Event stamped with the current time.
func NewEvent(topic Topic, name string, payload any) Event {
	return Event{
		Topic:     topic,
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
