package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/types"
)

// decodeRequest fills dst from a JSON body or, when the Content-Type says
// so, a protobuf-encoded google.protobuf.Struct.  An empty body is accepted
// only when optional is set.
func decodeRequest(r *http.Request, dst any, optional bool) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return errors.New("empty body")
	}

	if isProtobuf(r) {
		var s structpb.Struct
		if err := proto.Unmarshal(body, &s); err != nil {
			return err
		}
		return fromStruct(&s, dst)
	}
	return decodeStrictJSON(body, dst)
}

func decodeStrictJSON(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

// respond writes v as JSON, or as a google.protobuf.Struct when the client
// sent Accept: application/x-protobuf.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsProtobuf(r) {
		msg, err := toStruct(v)
		if err != nil {
			http.Error(w, "proto encode error", http.StatusInternalServerError)
			return
		}
		writeProto(w, status, msg)
		return
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respond(w, r, status, types.ErrorResponse{Error: code, Message: message})
}
