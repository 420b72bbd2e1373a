package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoWS(t *testing.T) {
	r := newTestRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/echo"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

	tests := []struct {
		name        string
		messageType int
		payload     []byte
	}{
		{name: "text frame", messageType: websocket.TextMessage, payload: []byte("hello")},
		{name: "binary frame", messageType: websocket.BinaryMessage, payload: []byte{0x00, 0x01, 0xff}},
		{name: "empty frame", messageType: websocket.TextMessage, payload: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(tt.messageType, tt.payload))

			gotType, gotPayload, err := conn.ReadMessage()
			require.NoError(t, err)
			assert.Equal(t, tt.messageType, gotType)
			assert.Equal(t, string(tt.payload), string(gotPayload))
		})
	}
}

func TestEchoWS_PlainHTTPRejected(t *testing.T) {
	r := newTestRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/v1/ws/echo")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
}
