package notify

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/listenupapp/staff-directory/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChan:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case e := <-c.EventChan:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotify_OnlyRecipientReceives(t *testing.T) {
	m := startManager(t)

	ada, err := m.Connect("acct-ada")
	require.NoError(t, err)
	grace, err := m.Connect("acct-grace")
	require.NoError(t, err)

	m.Notify(context.Background(), Notification{
		ActorID:     "acct-grace",
		Verb:        VerbTagged,
		SubjectID:   "person-ada",
		RecipientID: "acct-ada",
		Title:       `Grace Hopper tagged you with "Go"`,
		Link:        "/people/ada-lovelace",
	})

	e := receive(t, ada)
	assert.Equal(t, EventPersonTagged, e.Type)
	assert.NotEmpty(t, e.ID)
	data, ok := e.Data.(NotificationData)
	require.True(t, ok)
	assert.Equal(t, `Grace Hopper tagged you with "Go"`, data.Title)
	assert.Equal(t, "/people/ada-lovelace", data.Link)

	assertNothing(t, grace)
}

func TestNotify_WithoutRecipientIsDropped(t *testing.T) {
	m := startManager(t)
	c, err := m.Connect("acct-ada")
	require.NoError(t, err)

	m.Notify(context.Background(), Notification{Verb: VerbThanked})

	assertNothing(t, c)
}

func TestEventTypeFor(t *testing.T) {
	assert.Equal(t, EventPersonTagged, eventTypeFor(VerbTagged))
	assert.Equal(t, EventPersonUntagged, eventTypeFor(VerbUntagged))
	assert.Equal(t, EventPersonThanked, eventTypeFor(VerbThanked))
}

func TestDisconnect(t *testing.T) {
	m := NewManager(logger.Discard())
	c, err := m.Connect("acct-ada")
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(c.ID)
	m.Disconnect(c.ID) // second call is a no-op

	assert.Equal(t, 0, m.ClientCount())
	_, open := <-c.Done
	assert.False(t, open)
}

func TestShutdown_DropsLateEvents(t *testing.T) {
	m := NewManager(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		m.EmitToUser("acct-ada", NewEvent(EventPersonThanked, nil))
	})
}

func TestHandler_StreamsEvents(t *testing.T) {
	m := startManager(t)
	h := NewHandler(m, func(r *http.Request) (string, bool) {
		return r.Header.Get("X-Account"), r.Header.Get("X-Account") != ""
	}, logger.Discard())

	srv := httptest.NewServer(h)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Account", "acct-ada")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	m.Notify(context.Background(), Notification{RecipientID: "acct-ada", Verb: VerbThanked, Title: "Grace thanked you for Service"})

	var found bool
	for range 10 {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: person.thanked") {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestHandler_RequiresAccount(t *testing.T) {
	m := NewManager(logger.Discard())
	h := NewHandler(m, func(*http.Request) (string, bool) { return "", false }, logger.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
