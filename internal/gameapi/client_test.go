package gameapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escape-ops-console/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.BackendConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
}

func TestClient_UnresolvedErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/adminui/errorcheck", r.URL.Path)
		w.Write([]byte(`[
			{"ErrorId": 3, "Description": "door sensor stuck", "FromWhere": "room A", "ReportedTime": "2026-08-28T10:00:00", "IsSolved": false},
			{"ErrorId": 4, "Description": "lamp offline", "FromWhere": "room B", "ReportedTime": "2026-08-28T10:05:00", "IsSolved": false}
		]`))
	}))

	records, err := client.UnresolvedErrors(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].ErrorId)
	assert.Equal(t, "door sensor stuck", records[0].Description)
}

func TestClient_MalformedResponseFailsClosed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"this is": "not an array"`))
	}))

	records, err := client.UnresolvedErrors(context.Background())
	require.Error(t, err)
	assert.Nil(t, records, "a payload that does not parse yields no partial state")
}

func TestClient_EnvelopeFailureBecomesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "group name is a duplicate"}`))
	}))

	err := client.Register(context.Background(), RegistrationRequest{GroupName: "Alpha"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "group name is a duplicate", apiErr.Message)
}

func TestClient_RegisterEndpointSelection(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"success": true}`))
	}))

	require.NoError(t, client.Register(context.Background(), RegistrationRequest{
		GroupName: "Alpha", PlayerCount: 3, Difficulty: 2, QueueNumber: "12",
	}))
	require.NoError(t, client.Register(context.Background(), RegistrationRequest{
		GroupName: "Bravo", PlayerCount: 2, Difficulty: 1, RoomID: "B",
	}))

	assert.Equal(t, []string{
		"/api/adminui/regChallenge/auto",
		"/api/adminui/regChallenge",
	}, paths, "a named room uses the manual endpoint, otherwise auto-assign")
}

func TestClient_IssueCertificate(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"success": true, "filename": "alpha_certificate.pdf"}`))
	}))

	filename, err := client.IssueCertificate(context.Background(), "42", false)
	require.NoError(t, err)
	assert.Equal(t, "alpha_certificate.pdf", filename)

	_, err = client.IssueCertificate(context.Background(), "42", true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/adminui/groups/42/getCertificate",
		"/api/adminui/groups/42/getCertificate/re",
	}, paths)
}

func TestClient_IssueCertificateWithoutFilename(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	}))

	_, err := client.IssueCertificate(context.Background(), "42", false)
	assert.Error(t, err)
}

func TestClient_ResolveErrorChecksStatus(t *testing.T) {
	status := http.StatusOK
	var gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(status)
	}))

	require.NoError(t, client.ResolveError(context.Background(), 7))
	assert.JSONEq(t, `{"ErrorId": 7}`, gotBody)

	status = http.StatusInternalServerError
	assert.Error(t, client.ResolveError(context.Background(), 7))
}

func TestClient_ListRooms(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/adminui/rooms/list", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": [
			{"RoomID": "A", "ChallengerName": "Alpha", "ChallengerId": "g1", "Difficulty": 2, "MemberCount": 3, "Status": "Started", "StartTime": "2026-08-28T09:30:00"},
			{"RoomID": "B", "Status": "Free"}
		]}`))
	}))

	rooms, err := client.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	// The room endpoints name the group "Challenger"; GroupName is only a
	// queue-status key and must not be accepted here.
	assert.Equal(t, "Alpha", rooms[0].GroupName)
	assert.Equal(t, "g1", rooms[0].GroupId)
	assert.Equal(t, RoomStarted, rooms[0].Status)
}

func TestClient_UpdateRoomWireKeys(t *testing.T) {
	var path string
	var gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"success": true}`))
	}))

	err := client.UpdateRoom(context.Background(), "A", RoomUpdate{
		GroupName:   "Alpha",
		GroupId:     "g1",
		Difficulty:  2,
		MemberCount: 3,
		Status:      RoomStarted,
		StartTime:   "2026-08-28T09:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/adminui/rooms/update/A", path)
	assert.JSONEq(t, `{
		"challengerName": "Alpha",
		"challengerId": "g1",
		"difficulty": 2,
		"memberCount": 3,
		"status": "Started",
		"startTime": "2026-08-28T09:30:00"
	}`, gotBody)
}

func TestClient_ClearTimes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cleartimes", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("difficulty"))
		w.Write([]byte(`{"success": true, "data": [
			{"GroupName": "Alpha", "ElapsedTime": 312, "Difficulty": 3}
		]}`))
	}))

	entries, err := client.ClearTimes(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alpha", entries[0].GroupName)
}

func TestClient_SetGuided(t *testing.T) {
	var path, method string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
	}))

	require.NoError(t, client.SetGuided(context.Background(), "c-12"))
	assert.Equal(t, "/api/adminui/setGuidedStatus/c-12", path)
	assert.Equal(t, http.MethodPost, method)
}
