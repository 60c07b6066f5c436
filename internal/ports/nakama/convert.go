package nakama

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"wakeng/internal/app"
	"wakeng/internal/domain"
)

// matchLabel is the searchable summary Nakama keeps for a match.
type matchLabel struct {
	Open  int
	Phase string
	Deck  string
	Round int
}

func (l matchLabel) marshal() (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"game":            gameLabel,
		MatchLabelKeyOpen: l.Open,
		"phase":           l.Phase,
		"deck":            l.Deck,
		"round":           l.Round,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BidRequest is the OpBid payload.
type BidRequest struct {
	Score int `json:"score"`
}

// PlayCardsRequest is the OpPlayCards payload. Cards are codes such as "H4" or "J17".
type PlayCardsRequest struct {
	Cards []string `json:"cards"`
}

// MultiplierRequest is the OpSetMultiplier payload.
type MultiplierRequest struct {
	Multiplier int `json:"multiplier"`
}

// ErrorPayload is sent to the acting presence only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var errBadPayload = fmt.Errorf("%w: malformed payload", domain.ErrLegality)

func decodeRequest(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func errorPayload(err error) ErrorPayload {
	kind := domain.ErrorKind(err)
	code := 500
	switch {
	case errors.Is(err, app.ErrNotHost):
		code = 403
	case kind == "legality":
		code = 400
	case kind == "phase", kind == "turn", kind == "state":
		code = 409
	}
	return ErrorPayload{Code: code, Kind: kind, Message: err.Error()}
}

func encodeEvent(ev app.Event) (int64, []byte, error) {
	op, ok := eventOpCodes[ev.Kind]
	if !ok {
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal event %s: %w", ev.Kind, err)
	}
	return op, data, nil
}
