package websocket

import (
	"encoding/json"
)

type MessageType string

const (
	// Server to Client
	MessageTypePatchReleased MessageType = "patch_released"
)

type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

type PatchReleasedPayload struct {
	Version string `json:"version"`
}
