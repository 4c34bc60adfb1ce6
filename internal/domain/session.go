package domain

import (
	"encoding/json"
	"fmt"
)

type SessionStatus string

const SessionInProgress SessionStatus = "IN_PROGRESS"

type Participant struct {
	UUID string `json:"uuid"`
}

// GameMetadata binds the in-game player numbers of one game to the two
// participants. It is written once when the game joins a session.
type GameMetadata struct {
	GameUUID      string `json:"gameUuid"`
	PlayerOneUUID string `json:"playerOneUuid"`
	PlayerTwoUUID string `json:"playerTwoUuid"`
}

// ParticipantFor maps an in-game player number to a participant uuid
func (m GameMetadata) ParticipantFor(p PlayerNumber) string {
	if p == PlayerOne {
		return m.PlayerOneUUID
	}
	return m.PlayerTwoUUID
}

// GameHistory is an insertion ordered map of game uuid to metadata.
// On the wire it is a plain list of entries.
type GameHistory struct {
	order []string
	games map[string]GameMetadata
}

func (h *GameHistory) Add(meta GameMetadata) {
	if h.games == nil {
		h.games = make(map[string]GameMetadata)
	}
	if _, exists := h.games[meta.GameUUID]; !exists {
		h.order = append(h.order, meta.GameUUID)
	}
	h.games[meta.GameUUID] = meta
}

func (h GameHistory) Get(gameUUID string) (GameMetadata, bool) {
	meta, ok := h.games[gameUUID]
	return meta, ok
}

func (h GameHistory) Len() int {
	return len(h.order)
}

// UUIDs lists every game in the order it was added
func (h GameHistory) UUIDs() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

func (h GameHistory) Entries() []GameMetadata {
	out := make([]GameMetadata, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.games[id])
	}
	return out
}

func (h GameHistory) Clone() GameHistory {
	var out GameHistory
	for _, meta := range h.Entries() {
		out.Add(meta)
	}
	return out
}

func (h GameHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Entries())
}

func (h *GameHistory) UnmarshalJSON(data []byte) error {
	var entries []GameMetadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*h = GameHistory{}
	for _, meta := range entries {
		if meta.GameUUID == "" {
			return fmt.Errorf("%w: game history entry without uuid", ErrCorruptGameDetails)
		}
		h.Add(meta)
	}
	return nil
}

type SessionDetails struct {
	UUID           string        `json:"uuid"`
	Inviter        Participant   `json:"inviter"`
	Invitee        Participant   `json:"invitee"`
	Status         SessionStatus `json:"status"`
	Games          GameHistory   `json:"games"`
	ActiveGameUUID string        `json:"activeGameUuid,omitempty"`
	Version        int64         `json:"version"`
}

// ActiveGame returns the active game uuid, ok is false when the slot is empty
func (s SessionDetails) ActiveGame() (string, bool) {
	return s.ActiveGameUUID, s.ActiveGameUUID != ""
}

// OtherParticipant returns the participant that isn't uuid
func (s SessionDetails) OtherParticipant(uuid string) string {
	if uuid == s.Inviter.UUID {
		return s.Invitee.UUID
	}
	return s.Inviter.UUID
}

func (s SessionDetails) IsParticipant(uuid string) bool {
	return uuid == s.Inviter.UUID || uuid == s.Invitee.UUID
}

func (s SessionDetails) Clone() SessionDetails {
	out := s
	out.Games = s.Games.Clone()
	return out
}

type CreateSessionParams struct {
	InviterUUID string `json:"inviterUuid"`
	InviteeUUID string `json:"inviteeUuid"`
}

// NewGameMetadata binds player one to the starting participant and player
// two to the other participant of the session
func (s SessionDetails) NewGameMetadata(gameUUID, startingUUID string) GameMetadata {
	return GameMetadata{
		GameUUID:      gameUUID,
		PlayerOneUUID: startingUUID,
		PlayerTwoUUID: s.OtherParticipant(startingUUID),
	}
}
