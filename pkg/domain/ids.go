package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "stableford/pkg/domain-errors"
)

// Typed identifiers. Distinct types keep a round ID from being passed where a
// player ID is expected.
type (
	PlayerID         uuid.UUID
	HandicapRecordID uuid.UUID
	RoundID          uuid.UUID
	CourseID         uuid.UUID
	TeeSetID         uuid.UUID
)

func (id PlayerID) String() string { return uuid.UUID(id).String() }
func (id HandicapRecordID) String() string { return uuid.UUID(id).String() }
func (id RoundID) String() string { return uuid.UUID(id).String() }
func (id CourseID) String() string { return uuid.UUID(id).String() }
func (id TeeSetID) String() string { return uuid.UUID(id).String() }

func (id PlayerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id HandicapRecordID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RoundID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CourseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TeeSetID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }
func NewHandicapRecordID() HandicapRecordID { return HandicapRecordID(uuid.New()) }
func NewRoundID() RoundID { return RoundID(uuid.New()) }
func NewCourseID() CourseID { return CourseID(uuid.New()) }
func NewTeeSetID() TeeSetID { return TeeSetID(uuid.New()) }

func ParsePlayerID(s string) (PlayerID, error) {
	u, err := parseUUID(s, "player ID")
	return PlayerID(u), err
}

func ParseHandicapRecordID(s string) (HandicapRecordID, error) {
	u, err := parseUUID(s, "handicap record ID")
	return HandicapRecordID(u), err
}

func ParseRoundID(s string) (RoundID, error) {
	u, err := parseUUID(s, "round ID")
	return RoundID(u), err
}

func ParseCourseID(s string) (CourseID, error) {
	u, err := parseUUID(s, "course ID")
	return CourseID(u), err
}

func ParseTeeSetID(s string) (TeeSetID, error) {
	u, err := parseUUID(s, "tee set ID")
	return TeeSetID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}

// Text encoding keeps JSON payloads (cache entries, audit events) in the
// canonical UUID form. The nil ID encodes as the all-zero UUID.

func (id PlayerID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id HandicapRecordID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id RoundID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id CourseID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id TeeSetID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *PlayerID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *HandicapRecordID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *RoundID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CourseID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TeeSetID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
