package event

type Type string

const (
	TypeSpriteFetched Type = "sprite.fetched"
	TypeSpriteDeleted Type = "sprite.deleted"
	TypeSpriteCleared Type = "sprite.cleared"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
