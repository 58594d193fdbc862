package ades

import (
	"encoding/json"
	"fmt"
	"io"
)

func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ades: encoding request body: %w", err)
	}
	return data, nil
}

func decodeJSON(r io.Reader, out any) error {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.EOF
	}
	return json.Unmarshal(data, out)
}
