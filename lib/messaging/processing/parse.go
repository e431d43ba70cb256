package processing

import (
	"encoding/json"
	"fmt"
)

// ParseJSON deserializes a message body. A body that fails to unmarshal is a
// permanent failure: retrying a parse error can never succeed, so it goes to
// the dead-letter queue on first delivery.
func ParseJSON[T any](body []byte) (T, error) {
	var parsed T
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, Permanent(fmt.Errorf("failed to parse message body: %w", err))
	}
	return parsed, nil
}
