package game

import "errors"

var (
	// ErrNotStarted is returned when a session is ticked before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrLevelLocked is returned when starting above the unlocked level.
	ErrLevelLocked = errors.New("level locked")
	// ErrNoSuchPlayer is returned for player indices outside the session.
	ErrNoSuchPlayer = errors.New("no such player")
	// ErrEpisodeDone is returned when stepping a finished episode.
	ErrEpisodeDone = errors.New("episode done, call Reset")
	// ErrQueueFull is returned when the runner's action queue is saturated.
	ErrQueueFull = errors.New("action queue full")
)
