package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"rescue_ai/internal/rescue"
)

type generateRequest struct {
	NumAgents    int   `json:"num_agents"`
	NumSurvivors int   `json:"num_survivors"`
	NumObstacles int   `json:"num_obstacles"`
	Seed         int64 `json:"seed,omitempty"`
}

type moveRequest struct {
	Order []rescue.AgentID `json:"order,omitempty"`
}

func badBody(format string, args ...any) error {
	return &rescue.ValidationError{Field: "body", Reason: fmt.Sprintf(format, args...)}
}

// decodeFields reads a JSON object body. An empty body yields an empty map.
func decodeFields(body io.Reader) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	err := json.NewDecoder(body).Decode(&fields)
	switch {
	case errors.Is(err, io.EOF):
		return map[string]json.RawMessage{}, nil
	case err != nil:
		return nil, badBody("expected a JSON object: %v", err)
	}
	return fields, nil
}

// intField checks presence and integer syntax separately so the caller learns
// which field was wrong. Range checks happen in rescue.BuildGrid.
func intField(fields map[string]json.RawMessage, name string, required bool) (int64, bool, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		if required {
			return 0, false, &rescue.ValidationError{Field: name, Reason: "is required"}
		}
		return 0, false, nil
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, &rescue.ValidationError{Field: name, Reason: fmt.Sprintf("must be an integer, got %s", raw)}
	}
	return v, true, nil
}

func decodeGenerate(body io.Reader) (generateRequest, error) {
	var req generateRequest
	fields, err := decodeFields(body)
	if err != nil {
		return req, err
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"num_agents", &req.NumAgents},
		{"num_survivors", &req.NumSurvivors},
		{"num_obstacles", &req.NumObstacles},
	} {
		v, _, err := intField(fields, f.name, true)
		if err != nil {
			return req, err
		}
		*f.dst = int(v)
	}
	if v, ok, err := intField(fields, "seed", false); err != nil {
		return req, err
	} else if ok {
		req.Seed = v
	}
	return req, nil
}

func (r generateRequest) params() rescue.BuildParams {
	return rescue.BuildParams{
		Agents:    r.NumAgents,
		Survivors: r.NumSurvivors,
		Obstacles: r.NumObstacles,
		Seed:      r.Seed,
	}
}

func decodeMove(body io.Reader) (moveRequest, error) {
	var req moveRequest
	fields, err := decodeFields(body)
	if err != nil {
		return req, err
	}
	raw, ok := fields["order"]
	if !ok || string(raw) == "null" {
		return req, nil
	}
	if err := json.Unmarshal(raw, &req.Order); err != nil {
		return req, &rescue.ValidationError{Field: "order", Reason: "must be a list of agent ids"}
	}
	if req.Order == nil {
		req.Order = []rescue.AgentID{}
	}
	return req, nil
}
