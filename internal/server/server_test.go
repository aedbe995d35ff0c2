package server

import (
	"context"
	"encoding/json"
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

	"rescue_ai/internal/config"
	"rescue_ai/internal/rescue"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	srv := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	go srv.hub.Run(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func decodeView(t *testing.T, b []byte) rescue.View {
	t.Helper()
	var v rescue.View
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestGenerate_Validation(t *testing.T) {
	ts := newTestServer(t)
	for name, tc := range map[string]struct {
		body  string
		field string
	}{
		"empty body":       {``, "num_agents"},
		"not an object":    {`[1,2]`, "body"},
		"missing agents":   {`{"num_survivors":1,"num_obstacles":1}`, "num_agents"},
		"float survivors":  {`{"num_agents":1,"num_survivors":2.5,"num_obstacles":1}`, "num_survivors"},
		"string obstacles": {`{"num_agents":1,"num_survivors":2,"num_obstacles":"3"}`, "num_obstacles"},
		"zero agents":      {`{"num_agents":0,"num_survivors":2,"num_obstacles":3}`, "num_agents"},
		"negative":         {`{"num_agents":2,"num_survivors":-1,"num_obstacles":3}`, "num_survivors"},
		"bad seed":         {`{"num_agents":2,"num_survivors":1,"num_obstacles":3,"seed":"x"}`, "seed"},
	} {
		t.Run(name, func(t *testing.T) {
			resp, b := post(t, ts, "/generate_grid", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var eb errorBody
			require.NoError(t, json.Unmarshal(b, &eb))
			assert.Equal(t, tc.field, eb.Field)
			assert.NotEmpty(t, eb.Error)
		})
	}
}

func TestMove_BeforeGenerate(t *testing.T) {
	ts := newTestServer(t)

	resp, b := post(t, ts, "/move", ``)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(b), "generate a grid first")

	r, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusConflict, r.StatusCode)
}

func TestGenerateThenMove(t *testing.T) {
	ts := newTestServer(t)

	resp, b := post(t, ts, "/generate_grid", `{"num_agents":3,"num_survivors":5,"num_obstacles":10,"seed":8}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	gen := decodeView(t, b)
	assert.Len(t, gen.AgentStates, 3)
	assert.Len(t, gen.Grid.Survivors, 5)
	assert.Len(t, gen.Grid.Obstacles, 10)
	assert.Equal(t, gen.Grid.Obstacles, gen.Grid.Hazards)
	assert.Equal(t, 12, gen.Grid.Size)
	assert.EqualValues(t, 8, gen.Seed)
	assert.Zero(t, gen.Tick)
	assert.Len(t, gen.Grid.Assignments, 3)

	resp, b = post(t, ts, "/move", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	moved := decodeView(t, b)
	assert.Equal(t, 1, moved.Tick)
	assert.Equal(t, gen.ID, moved.ID)

	resp, b = post(t, ts, "/move", `{"order":[2,1,0]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	assert.Equal(t, 2, decodeView(t, b).Tick)

	r, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer r.Body.Close()
	state, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, decodeView(t, state).Tick)
}

func TestGenerate_SameSeedSameGrid(t *testing.T) {
	ts := newTestServer(t)
	body := `{"num_agents":2,"num_survivors":6,"num_obstacles":12,"seed":31}`
	_, a := post(t, ts, "/generate_grid", body)
	_, b := post(t, ts, "/generate_grid", body)
	va, vb := decodeView(t, a), decodeView(t, b)
	assert.NotEqual(t, va.ID, vb.ID)
	assert.Equal(t, va.Grid, vb.Grid)
	assert.Equal(t, va.AgentStates, vb.AgentStates)
}

func TestMove_BadOrder(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/generate_grid", `{"num_agents":2,"num_survivors":1,"num_obstacles":0,"seed":3}`)

	for _, body := range []string{`{"order":[0,9]}`, `{"order":"all"}`} {
		resp, b := post(t, ts, "/move", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		var eb errorBody
		require.NoError(t, json.Unmarshal(b, &eb))
		assert.Equal(t, "order", eb.Field)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/move", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestWebsocket_PushesState(t *testing.T) {
	ts := newTestServer(t)
	_, b := post(t, ts, "/generate_grid", `{"num_agents":1,"num_survivors":2,"num_obstacles":0,"seed":4}`)
	gen := decodeView(t, b)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	env := readEnvelope(t, conn)
	assert.Equal(t, EventFullState, env.Type)
	assert.Equal(t, gen.ID, decodeView(t, env.Payload).ID)

	post(t, ts, "/move", ``)
	env = readEnvelope(t, conn)
	assert.Equal(t, EventTick, env.Type)
	assert.Equal(t, 1, decodeView(t, env.Payload).Tick)
}
