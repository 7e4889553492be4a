package soil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DefaultPayloadCapacity is the size of the payload buffer in bytes.
const DefaultPayloadCapacity = 32

// payloadKey is the single field of the payload object.
const payloadKey = "soil_moisture"

var (
	// ErrPayloadOverflow is returned when the encoded reading does not fit the buffer.
	ErrPayloadOverflow = errors.New("payload exceeds buffer capacity")
	// ErrMalformedPayload is returned when a payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Trigger asks the sampler to run one acquisition cycle.
type Trigger struct{}

// Payload is an encoded moisture reading, e.g. {"soil_moisture": 50}.
// It is immutable once built.
type Payload struct {
	text string
}

// EncodePayload renders the percentage into a payload of at most capacity bytes.
func EncodePayload(percent int, capacity int) (Payload, error) {
	buf := make([]byte, 0, DefaultPayloadCapacity)
	buf = append(buf, `{"`+payloadKey+`": `...)
	buf = strconv.AppendInt(buf, int64(percent), 10)
	buf = append(buf, '}')

	if capacity < 0 || len(buf) > capacity {
		return Payload{}, fmt.Errorf("%w: %d bytes, capacity %d", ErrPayloadOverflow, len(buf), capacity)
	}

	return Payload{text: string(buf)}, nil
}

// ParsePayload decodes a payload produced by EncodePayload or any JSON encoder.
func ParsePayload(data []byte) (int, error) {
	var body map[string]json.Number
	if err := json.Unmarshal(data, &body); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	raw, ok := body[payloadKey]
	if !ok || len(body) != 1 {
		return 0, fmt.Errorf("%w: expected only %q", ErrMalformedPayload, payloadKey)
	}

	percent, err := strconv.Atoi(raw.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return percent, nil
}

// String returns the encoded text.
func (p Payload) String() string {
	return p.text
}

// Len returns the encoded length in bytes.
func (p Payload) Len() int {
	return len(p.text)
}

// IsZero reports whether the payload was never encoded.
func (p Payload) IsZero() bool {
	return p.text == ""
}

// Percent decodes the reading back from the payload.
func (p Payload) Percent() (int, error) {
	return ParsePayload([]byte(p.text))
}
