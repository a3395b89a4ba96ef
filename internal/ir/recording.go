package ir

import "fmt"

// Operation names written to the audit log.
const (
	OpInsert = "slides.insert"
	OpOffset = "slides.offset"
	OpBlank  = "slides.blank"
	OpDelete = "slides.delete"
	OpReset  = "slides.reset"
	OpMove   = "slides.move"
	OpActive = "slides.active"
)

// RecordedOps lists every operation name the engine records, in no particular order.
var RecordedOps = map[string]bool{
	OpInsert: true,
	OpOffset: true,
	OpBlank:  true,
	OpDelete: true,
	OpReset:  true,
	OpMove:   true,
	OpActive: true,
}

// Args holds recorded operation arguments.
// Values are restricted to string, int64, bool, []any and map[string]any.
type Args map[string]any

// Recording is one audit log entry: an invoked deck operation and its raw arguments.
type Recording struct {
	ID            string `json:"id"`  // Content-addressed, see RecordingID
	Seq           int64  `json:"seq"` // Logical clock
	Operation     string `json:"operation"`
	Args          Args   `json:"args"`
	EngineVersion string `json:"engine_version"`
}

// Int returns the int64 argument with the given key.
func (a Args) Int(key string) (int64, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("argument %q: want int, got %T", key, v)
	}
}

// String returns the string argument with the given key.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: want string, got %T", key, v)
	}
	return s, nil
}

// Bool returns the bool argument with the given key.
func (a Args) Bool(key string) (bool, error) {
	v, ok := a[key]
	if !ok {
		return false, fmt.Errorf("missing argument %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("argument %q: want bool, got %T", key, v)
	}
	return b, nil
}

// Object returns the nested object argument with the given key.
func (a Args) Object(key string) (Args, error) {
	v, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", key)
	}
	switch m := v.(type) {
	case Args:
		return m, nil
	case map[string]any:
		return Args(m), nil
	default:
		return nil, fmt.Errorf("argument %q: want object, got %T", key, v)
	}
}
