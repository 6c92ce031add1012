package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/bubbletrouble/game"
)

// Frame is one recorded step of an episode.
type Frame struct {
	Step     int           `msgpack:"step"`
	Actions  []game.Action `msgpack:"actions"`
	Reward   float64       `msgpack:"reward"`
	Snapshot game.Snapshot `msgpack:"snapshot"`
}

// Recorder streams frames as consecutive msgpack values.
type Recorder struct {
	enc    *msgpack.Encoder
	closer io.Closer
	frames int
}

// NewRecorder writes frames to w.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{enc: msgpack.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// CreateRecorder creates (or truncates) the replay file at path.
func CreateRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating replay: %w", err)
	}
	return NewRecorder(f), nil
}

// Record appends one frame.
func (r *Recorder) Record(f Frame) error {
	if r == nil {
		return nil
	}
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("encoding frame %d: %w", f.Step, err)
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int {
	if r == nil {
		return 0
	}
	return r.frames
}

// Close closes the underlying writer if it is closable.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadReplay decodes every frame from rd.
func ReadReplay(rd io.Reader) ([]Frame, error) {
	dec := msgpack.NewDecoder(rd)
	var frames []Frame
	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("decoding frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}

// LoadReplay reads a replay file.
func LoadReplay(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay: %w", err)
	}
	defer f.Close()
	return ReadReplay(f)
}
