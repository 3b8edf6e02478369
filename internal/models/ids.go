package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexID is an identifier the backend sends either as a JSON string or as a
// number. It is always held in its textual form.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string {
	return string(id)
}

// EnvelopeStatus is the top-level "status" of a backend response. Older
// backend revisions answer a boolean; true reads as "success".
type EnvelopeStatus string

const StatusSuccess EnvelopeStatus = "success"

func (s *EnvelopeStatus) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*s = StatusSuccess
		return nil
	case "false":
		*s = "failed"
		return nil
	case "null":
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("status must be a string or boolean: %w", err)
	}
	*s = EnvelopeStatus(str)
	return nil
}
