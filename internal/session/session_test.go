package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/textwash/internal/options"
	"github.com/dgallion1/textwash/internal/sanitize"
)

func startSessionServer(t *testing.T) *websocket.Conn {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := sanitize.NewService(log, 0)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		New(conn, svc, log, 10*time.Millisecond, 1<<20).Run()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestSession_UpdateProducesHighlights(t *testing.T) {
	conn := startSessionServer(t)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeUpdate, HTML: "<p>a​b</p>"}))

	msg := readType(t, conn, TypeHighlighted)
	assert.Contains(t, msg.HTML, `class="twash-flag"`)
	assert.Contains(t, msg.HTML, "Zero-width character")
}

func TestSession_RapidUpdatesCoalesce(t *testing.T) {
	conn := startSessionServer(t)

	// Several updates in quick succession; the final state must be the
	// last one rendered.
	for _, h := range []string{"<p>one </p>", "<p>two </p>", "<p>three </p>"} {
		require.NoError(t, conn.WriteJSON(Message{Type: TypeUpdate, HTML: h}))
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var last Message
	for {
		msg := readType(t, conn, TypeHighlighted)
		last = msg
		if strings.Contains(msg.HTML, "three") {
			break
		}
	}
	assert.Contains(t, last.HTML, "three")
}

func TestSession_SanitizeStripsMarkers(t *testing.T) {
	conn := startSessionServer(t)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeUpdate, HTML: "<p>A — B​</p>"}))
	readType(t, conn, TypeHighlighted)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeSanitize}))
	msg := readType(t, conn, TypeSanitized)

	assert.Equal(t, "<p>A; B</p>", msg.HTML)
	assert.NotContains(t, msg.HTML, "twash-flag")
}

func TestSession_OptionToggleTriggersRender(t *testing.T) {
	conn := startSessionServer(t)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeUpdate, HTML: "<p>x​y</p>"}))
	readType(t, conn, TypeHighlighted)

	opts := options.Options{}
	require.NoError(t, conn.WriteJSON(Message{Type: TypeOptions, Options: &opts}))
	msg := readType(t, conn, TypeHighlighted)

	// Markers still mark the zero-width character, and never nest.
	assert.Equal(t, 1, strings.Count(msg.HTML, "twash-flag"))
}

func TestSession_UnknownTypeReturnsError(t *testing.T) {
	conn := startSessionServer(t)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	msg := readType(t, conn, TypeError)
	assert.Contains(t, msg.Error, "unknown message type")
}
