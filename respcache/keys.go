package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// RequestKey derives a stable cache key from a full method name and a
// request value. Protobuf messages are marshaled deterministically; other
// values fall back to JSON. The payload is hashed, so keys stay short
// enough for any backend regardless of request size.
func RequestKey(fullMethod string, req any) (string, error) {
	payload, err := marshalValue(req)
	if err != nil {
		return "", fmt.Errorf("respcache: key for %s: %w", fullMethod, err)
	}
	sum := sha256.Sum256(payload)
	return fullMethod + ":" + hex.EncodeToString(sum[:]), nil
}

// MarshalResponse encodes a response value for storage.
func MarshalResponse(v any) ([]byte, error) {
	b, err := marshalValue(v)
	if err != nil {
		return nil, fmt.Errorf("respcache: marshal response: %w", err)
	}
	return b, nil
}

// UnmarshalResponse decodes stored data into the caller-supplied response
// value, which must be a pointer.
func UnmarshalResponse(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		if err := proto.Unmarshal(data, m); err != nil {
			return fmt.Errorf("respcache: unmarshal response: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("respcache: unmarshal response: %w", err)
	}
	return nil
}

// marshalValue encodes protobuf messages with deterministic field ordering
// and everything else as JSON, mirroring the wire codec's split.
func marshalValue(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return proto.MarshalOptions{Deterministic: true}.Marshal(m)
	}
	return json.Marshal(v)
}
