package event

// Message is one outbound free-text message addressed to a player.
type Message struct {
	Recipient string
	Content   string
}

// Result is what observers and commands produce: either an outbound message
// or a follow-up event. Exactly one of the two fields is set.
type Result struct {
	Message *Message
	Event   *Event
}

// MessageResult wraps an outbound message as a result.
func MessageResult(recipient, content string) Result {
	return Result{Message: &Message{Recipient: recipient, Content: content}}
}

// EventResult wraps a follow-up event as a result.
func EventResult(evt Event) Result {
	return Result{Event: &evt}
}

// Messages extracts the outbound messages from a result list in order.
func Messages(results []Result) []Message {
	var messages []Message
	for _, result := range results {
		if result.Message != nil {
			messages = append(messages, *result.Message)
		}
	}
	return messages
}

// FollowUps extracts the follow-up events from a result list in order.
func FollowUps(results []Result) []Event {
	var events []Event
	for _, result := range results {
		if result.Event != nil {
			events = append(events, *result.Event)
		}
	}
	return events
}

// Broadcast builds one message per recipient with the same content.
func Broadcast(recipients []string, content string) []Result {
	results := make([]Result, 0, len(recipients))
	for _, recipient := range recipients {
		results = append(results, MessageResult(recipient, content))
	}
	return results
}
