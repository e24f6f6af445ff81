package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an item identifier. The upstream JSON may carry it as a number or a
// string; both decode to their textual form.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric IDs as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Item is one record of the loaded collection. Only id, title and body are
// interpreted; the full record is kept in Raw.
type Item struct {
	ID    ID              `json:"id"`
	Title string          `json:"title,omitempty"`
	Body  string          `json:"body"`
	Raw   json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps a copy of the record.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	it.Raw = append(json.RawMessage(nil), data...)
	return nil
}
