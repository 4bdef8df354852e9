package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrUnknownMessage = errors.New("unknown message type")
)

func DecodeClientMessage(b []byte) (ClientMessage, error) {
	var m ClientMessage
	if len(b) == 0 {
		return m, ErrEmptyMessage
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode client message: %w", err)
	}
	if !knownClientType(m.Type) {
		return m, fmt.Errorf("%w %q", ErrUnknownMessage, m.Type)
	}
	return m, nil
}

func EncodeClientMessage(m ClientMessage) ([]byte, error) {
	if !knownClientType(m.Type) {
		return nil, fmt.Errorf("%w %q", ErrUnknownMessage, m.Type)
	}
	return json.Marshal(m)
}

func EncodeServerMessage(m ServerMessage) ([]byte, error) {
	if m.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrUnknownMessage)
	}
	return json.Marshal(m)
}

func DecodeServerMessage(b []byte) (ServerMessage, error) {
	var m ServerMessage
	if len(b) == 0 {
		return m, ErrEmptyMessage
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode server message: %w", err)
	}
	if m.Type == "" {
		return m, fmt.Errorf("%w: missing type", ErrUnknownMessage)
	}
	return m, nil
}
