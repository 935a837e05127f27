package tuning

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Reply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(core.NewSettingsStage(core.DefaultSettings()), nil)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func TestConnectSendsState(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)

	r := read(t, conn)
	assert.Equal(t, TypeState, r.Type)
	assert.Equal(t, core.DefaultSettings(), r.Settings)
	_, err := uuid.Parse(r.Session)
	assert.NoError(t, err)
}

func TestPartialSettingsAreStaged(t *testing.T) {
	s, srv := newTestServer(t)
	conn := dial(t, srv)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(Message{
		Type:     TypeSettings,
		Settings: json.RawMessage(`{"windDirection":[0,0,1],"windStrength":3}`),
	}))
	r := read(t, conn)
	require.Equal(t, TypeState, r.Type, r.Error)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, r.Settings.WindDirection)
	assert.Equal(t, float32(3), r.Settings.WindStrength)
	assert.Equal(t, core.MaxInstances, r.Settings.GrassCount)

	staged, changed, regenerate := s.Stage.Take()
	assert.True(t, changed)
	assert.False(t, regenerate)
	assert.Equal(t, r.Settings, staged)
}

func TestInvalidSettingsAreRefused(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"out of range", Message{Type: TypeSettings, Settings: json.RawMessage(`{"grassCount":0}`)}},
		{"bad json", Message{Type: TypeSettings, Settings: json.RawMessage(`{"windStrength":"strong"}`)}},
		{"missing settings", Message{Type: TypeSettings}},
		{"unknown type", Message{Type: "explode"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, srv := newTestServer(t)
			conn := dial(t, srv)
			read(t, conn)

			require.NoError(t, conn.WriteJSON(tc.msg))
			r := read(t, conn)
			assert.Equal(t, TypeError, r.Type)
			assert.NotEmpty(t, r.Error)
			assert.Equal(t, core.DefaultSettings(), s.Stage.Snapshot())
		})
	}
}

func TestRegenerateRequest(t *testing.T) {
	s, srv := newTestServer(t)
	conn := dial(t, srv)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeRegenerate}))
	assert.Equal(t, TypeState, read(t, conn).Type)

	_, _, regenerate := s.Stage.Take()
	assert.True(t, regenerate)
}

func TestChangesAreBroadcast(t *testing.T) {
	s, srv := newTestServer(t)
	a := dial(t, srv)
	b := dial(t, srv)
	sessionA := read(t, a).Session
	sessionB := read(t, b).Session
	assert.NotEqual(t, sessionA, sessionB)
	require.Eventually(t, func() bool { return s.Clients() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(Message{
		Type:     TypeSettings,
		Settings: json.RawMessage(`{"circleRadius":40}`),
	}))

	ra, rb := read(t, a), read(t, b)
	assert.Equal(t, float32(40), ra.Settings.CircleRadius)
	assert.Equal(t, float32(40), rb.Settings.CircleRadius)
	assert.Equal(t, sessionB, rb.Session)
}

func TestGetDoesNotBroadcast(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	first := read(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeGet}))
	r := read(t, conn)
	assert.Equal(t, first, r)
}

func TestShutdownBeforeListen(t *testing.T) {
	s := NewServer(core.NewSettingsStage(core.DefaultSettings()), nil)
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.ListenAndServe("127.0.0.1:0"))
}

func TestShutdownClosesSessions(t *testing.T) {
	s, srv := newTestServer(t)
	conn := dial(t, srv)
	read(t, conn)

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return s.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
