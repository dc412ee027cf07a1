package gameapi

import "encoding/json"

// ErrorRecord is a reported operational error. The backend appends these;
// the console only ever flips IsSolved through the resolve endpoint.
type ErrorRecord struct {
	ErrorId      int64  `json:"ErrorId"`
	Description  string `json:"Description"`
	FromWhere    string `json:"FromWhere"`
	ReportedTime string `json:"ReportedTime"`
	IsSolved     bool   `json:"IsSolved"`
}

// Room is one physical game room. RoomID (A, B or C) is the natural key;
// the backend guarantees at most one active challenge per room. The room
// endpoints call the group a "challenger"; only the queue-status feed
// uses GroupName.
type Room struct {
	RoomID      string `json:"RoomID"`
	GroupName   string `json:"ChallengerName"`
	GroupId     string `json:"ChallengerId"`
	Difficulty  int    `json:"Difficulty"`
	MemberCount int    `json:"MemberCount"`
	Status      string `json:"Status"`
	StartTime   string `json:"StartTime"`
}

// RoomStarted is the Status value meaning a challenge is in progress.
// Status is otherwise free text.
const RoomStarted = "Started"

// RoomUpdate carries the editable fields of a room.
type RoomUpdate struct {
	GroupName   string `json:"challengerName"`
	GroupId     string `json:"challengerId"`
	Difficulty  int    `json:"difficulty"`
	MemberCount int    `json:"memberCount"`
	Status      string `json:"status"`
	StartTime   string `json:"startTime"`
}

// Snack state codes. Values 3..5 are the owed-item codes staff can act
// on; any other positive value is an owed count the backend has not yet
// narrowed to an item.
const (
	SnackCollected = -1
	SnackNone      = 0
)

// Group cleared states.
const (
	NotCleared           = 0 // still playing or never finished
	ClearedUncollected   = 1 // finished, certificate not yet handed out
	CertificateCollected = 2 // finished and certificate collected
)

// Group is a registered challenger group.
type Group struct {
	GroupId         string `json:"GroupId"`
	Name            string `json:"Name"`
	PlayerCount     int    `json:"PlayerCount"`
	ChallengesCount int    `json:"ChallengesCount"`
	WasCleared      int    `json:"WasCleared"`
	SnackState      int    `json:"SnackState"`
}

// QueueEntry announces a room that just became free and the group that
// should be walked to it.
type QueueEntry struct {
	ChallengeId string `json:"ChallengeId"`
	GroupName   string `json:"GroupName"`
	RoomID      string `json:"RoomID"`
	QueueNumber string `json:"QueueNumber"`
	MemberCount int    `json:"MemberCount"`
}

// RankingEntry is one leaderboard row. Order is whatever the backend
// returns; the console does not re-sort.
type RankingEntry struct {
	GroupName   string `json:"GroupName"`
	ElapsedTime int    `json:"ElapsedTime"`
	Difficulty  int    `json:"Difficulty"`
}

// RegistrationRequest is the payload for both registration endpoints.
// RoomID set means the manual endpoint; empty means auto-assign with the
// queue number. DupCheck=false on first submit; true only after the
// operator confirmed the name collision.
type RegistrationRequest struct {
	GroupName   string `json:"GroupName"`
	PlayerCount int    `json:"playerCount"`
	Difficulty  int    `json:"difficulty"`
	DupCheck    bool   `json:"dupCheck"`
	QueueNumber string `json:"queueNumber,omitempty"`
	RoomID      string `json:"roomID,omitempty"`
}

// envelope is the {success, message, data} wrapper most endpoints use.
type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
}
