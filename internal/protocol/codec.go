package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotObject marks a line that is valid JSON but not an object, such as
// null or an array.
var ErrNotObject = errors.New("message is not a JSON object")

// DecodeError reports the first NDJSON line that failed to parse. The batch it
// belongs to is discarded as a whole.
type DecodeError struct {
	Line int
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode splits raw NDJSON into an ordered message batch. Blank lines are
// skipped; any malformed line fails the whole batch.
func Decode(raw string) ([]Message, error) {
	lines := strings.Split(raw, "\n")
	messages := make([]Message, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed[0] != '{' {
			return nil, &DecodeError{Line: i + 1, Text: line, Err: ErrNotObject}
		}
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return nil, &DecodeError{Line: i + 1, Text: line, Err: err}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// WriteJSONL writes messages as JSON Lines.
func WriteJSONL(w io.Writer, messages []Message) error {
	for _, msg := range messages {
		if err := WriteMessage(w, msg); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessage writes a single message followed by a newline.
func WriteMessage(w io.Writer, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// EncodeEvent renders the outbound POST body for an event.
func EncodeEvent(evt Event) ([]byte, error) {
	return json.Marshal(ClientMessage{Event: &evt})
}
