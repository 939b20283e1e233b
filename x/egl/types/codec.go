package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
)

// jsonValueCodec stores module records as canonical JSON. Structs are encoded
// with a fixed field order so the bytes are deterministic.
type jsonValueCodec[T any] struct {
	name string
}

// NewJSONValueCodec returns a collections value codec for T.
func NewJSONValueCodec[T any](name string) collcodec.ValueCodec[T] {
	return jsonValueCodec[T]{name: name}
}

func (c jsonValueCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValueCodec[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("decoding %s: %w", c.name, err)
	}
	return value, nil
}

func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValueCodec[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (c jsonValueCodec[T]) Stringify(value T) string {
	return fmt.Sprintf("%+v", value)
}

func (c jsonValueCodec[T]) ValueType() string {
	return ModuleName + "/" + c.name
}

var (
	ParamsValue            = NewJSONValueCodec[Params]("params")
	GlobalStateValue       = NewJSONValueCodec[GlobalState]("global_state")
	VoterRecordValue       = NewJSONValueCodec[VoterRecord]("voter_record")
	EpochWindowValue       = NewJSONValueCodec[EpochWindow]("epoch_window")
	CandidateRegistryValue = NewJSONValueCodec[CandidateRegistry]("candidate_registry")
	PendingDaoValue        = NewJSONValueCodec[PendingDaoCandidate]("pending_dao_candidate")
	ApprovedUpgradeValue   = NewJSONValueCodec[ApprovedUpgrade]("approved_upgrade")
)
