package httpapi

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/rules"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

func gameResponse(s types.Snapshot) types.GameResponse {
	resp := types.GameResponse{
		Board:         s.Board,
		History:       s.History,
		CurrentPlayer: s.CurrentPlayer,
		Winner:        s.Winner,
		IsDraw:        s.IsDraw,
	}
	if resp.History == nil {
		resp.History = []int{}
	}
	if line, ok := rules.WinningLine(s.Board); ok {
		resp.WinningLine = line[:]
	}
	return resp
}

// toStruct re-encodes a JSON-tagged value as a google.protobuf.Struct so the
// protobuf and JSON encodings carry the same document.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// fromStruct decodes a google.protobuf.Struct into a JSON-tagged value,
// rejecting unknown fields like the JSON path does.
func fromStruct(s *structpb.Struct, dst any) error {
	b, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	return decodeStrictJSON(b, dst)
}
