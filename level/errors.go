package level

import "fmt"

// MissingLevelError is returned when a requested level has no definition.
type MissingLevelError struct {
	Level int
}

func (e *MissingLevelError) Error() string {
	return fmt.Sprintf("level %d: no definition", e.Level)
}

// MalformedLevelError is returned when a level definition cannot be used.
type MalformedLevelError struct {
	Level  int // 0 when the level number itself could not be read
	Reason string
	Err    error
}

func (e *MalformedLevelError) Error() string {
	msg := fmt.Sprintf("level %d: malformed: %s", e.Level, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedLevelError) Unwrap() error {
	return e.Err
}
