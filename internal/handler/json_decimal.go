package handler

import (
	"bytes"
	"encoding/json"
)

// "12.50" と 12.50 のどちらでも受ける。数値はfloatにせず文字のまま渡す。
type jsonDecimal string

func (d *jsonDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = jsonDecimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = jsonDecimal(n.String())
	return nil
}
