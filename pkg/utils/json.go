package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

func WriteJSON(w io.Writer, v any) error {
	j, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	j = append(j, '\n')
	if _, err := w.Write(j); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}
