package endpoint_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/stretchr/testify/assert"
)

func createNote(t *testing.T, r http.Handler, token, title, content string) uint {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"title": title, "content": content})
	rr, err := doRequest(r, "POST", "/note", b, authHeaders(token))
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("create note returned non-200: %d %s", rr.Code, rr.Body.String())
	}
	resp := ParseAPIResp(t, rr)
	var note model.Note
	if err := json.Unmarshal(resp.Data, &note); err != nil {
		t.Fatalf("parse note failed: %v", err)
	}
	return note.ID
}

func TestCreateNoteRequiresTitle(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Note User", Email: "note1@example.com", Password: "notepass1"})

	b, _ := json.Marshal(map[string]string{"content": "body without title"})
	rr, err := doRequest(r, "POST", "/note", b, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNoteLifecycle(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Note User", Email: "note2@example.com", Password: "notepass2"})

	noteID := createNote(t, r, token, "Follow up on headaches", "Started after late shifts")

	// Read it back
	rr, err := doRequest(r, "GET", fmt.Sprintf("/note/%d", noteID), nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := ParseAPIResp(t, rr)
	var note model.Note
	assert.NoError(t, json.Unmarshal(resp.Data, &note))
	assert.Equal(t, "Follow up on headaches", note.Title)
	assert.False(t, note.IsDone)

	// Mark it done
	b, _ := json.Marshal(map[string]interface{}{"is_done": true})
	rr, err = doRequest(r, "PATCH", fmt.Sprintf("/note/%d", noteID), b, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp = ParseAPIResp(t, rr)
	assert.NoError(t, json.Unmarshal(resp.Data, &note))
	assert.True(t, note.IsDone)
	assert.Equal(t, "Follow up on headaches", note.Title)

	// Delete it
	rr, err = doRequest(r, "DELETE", fmt.Sprintf("/note/%d", noteID), nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, err = doRequest(r, "GET", fmt.Sprintf("/note/%d", noteID), nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListNotesOrderingAndSearch(t *testing.T) {
	r, _, token, _ := SetupServerWithUser(t, SignupCreds{Name: "Note User", Email: "note3@example.com", Password: "notepass3"})

	createNote(t, r, token, "Blood pressure log", "morning readings")
	doneID := createNote(t, r, token, "Book appointment", "dermatology")
	b, _ := json.Marshal(map[string]interface{}{"is_done": true})
	rr, err := doRequest(r, "PATCH", fmt.Sprintf("/note/%d", doneID), b, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Open notes come before done ones
	rr, err = doRequest(r, "GET", "/note", nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	assert.Equal(t, float64(2), data["total"])
	notes := data["notes"].([]interface{})
	first := notes[0].(map[string]interface{})
	assert.Equal(t, "Blood pressure log", first["title"])

	// Keyword search narrows the result
	rr, err = doRequest(r, "GET", "/note?keyword=pressure", nil, authHeaders(token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	data = ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	assert.Equal(t, float64(1), data["total_fetched"])
}

func TestNotesAreIsolatedBetweenUsers(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)

	tokenA, _ := CreateAndLoginUser(t, r, SignupCreds{Name: "Alice", Email: "alice@example.com", Password: "alicepass"})
	tokenB, _ := CreateAndLoginUser(t, r, SignupCreds{Name: "Bob", Email: "bob@example.com", Password: "bobpass12"})

	noteID := createNote(t, r, tokenA, "Private note", "only for alice")

	// Bob cannot see it in his listing
	rr, err := doRequest(r, "GET", "/note", nil, authHeaders(tokenB))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	assert.Equal(t, float64(0), data["total"])

	// Direct access, update and delete all resolve to not-found for Bob
	for _, req := range []struct {
		method string
		body   []byte
	}{
		{"GET", nil},
		{"PATCH", []byte(`{"title":"hijacked"}`)},
		{"DELETE", nil},
	} {
		rr, err := doRequest(r, req.method, fmt.Sprintf("/note/%d", noteID), req.body, authHeaders(tokenB))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s should not reach another user's note", req.method)
	}

	// Alice still owns an intact note
	rr, err = doRequest(r, "GET", fmt.Sprintf("/note/%d", noteID), nil, authHeaders(tokenA))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	var note model.Note
	assert.NoError(t, json.Unmarshal(ParseAPIResp(t, rr).Data, &note))
	assert.Equal(t, "Private note", note.Title)
}
