package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/ingenieras/internal/report"
	ws "github.com/gokatarajesh/ingenieras/pkg/http/ws"
)

func sampleReport() report.Report {
	return report.Report{
		Submission: report.Submission{
			ChallengeID: "solar01",
			StudentName: "Ana López",
			Steps:       []report.Step{{QuestionID: "Paso 1", Answer: "200"}, {QuestionID: "Paso 2"}},
			Timestamp:   "2026-10-16 10:00:00",
		},
		Filename: "20261016_100000_Ana_López_solar01_abcd1234.json",
	}
}

func dialFeed(t *testing.T, hub *ws.Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewHandler(hub, zerolog.Nop()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestEventFromReport(t *testing.T) {
	evt := EventFromReport(sampleReport())
	assert.Equal(t, "solar01", evt.ChallengeID)
	assert.Equal(t, 2, evt.Steps)
	assert.Equal(t, "2026-10-16 10:00:00", evt.Timestamp)
}

func TestLocalPublisherReachesClient(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)

	require.NoError(t, NewLocalPublisher(hub).Publish(context.Background(), sampleReport()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypeReportCreated, msg.Type)
	assert.Contains(t, string(msg.Payload), `"filename":"20261016_100000_Ana_López_solar01_abcd1234.json"`)
}

func TestBroadcasterForwardsValidPayloads(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)
	b := NewBroadcaster(nil, hub, "", zerolog.Nop())

	b.forward("not json")
	b.forward(`{"filename":"a.json","challenge_id":"c","student_name":"Bea","steps":1,"timestamp":"t"}`)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypeReportCreated, msg.Type)
	assert.Contains(t, string(msg.Payload), `"filename":"a.json"`)
}

func TestBroadcasterWithoutRedisReturnsImmediately(t *testing.T) {
	b := NewBroadcaster(nil, ws.NewHub(zerolog.Nop()), "", zerolog.Nop())
	assert.NoError(t, b.Run(context.Background()))
}

func TestPingIsAnsweredWithPong(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypePing, RequestID: "r1"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypePong, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	conn := dialFeed(t, hub)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
