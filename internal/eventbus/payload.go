package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// NewMessage marshals a payload into a watermill message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), data), nil
}

// NewResultMessage builds a message that carries the correlation ID of the
// message that caused it, so multi-hop flows stay traceable.
func NewResultMessage(causedBy *message.Message, payload any) (*message.Message, error) {
	msg, err := NewMessage(payload)
	if err != nil {
		return nil, err
	}
	if causedBy != nil {
		middleware.SetCorrelationID(middleware.MessageCorrelationID(causedBy), msg)
	}
	return msg, nil
}

// UnmarshalPayload decodes a message payload into target.
func UnmarshalPayload(msg *message.Message, target any) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload into %T: %w", target, err)
	}
	return nil
}
