package activity

import "encoding/json"

// Details encodes event attributes as the JSON string stored with an entry.
// Unencodable values produce an empty string rather than failing the event.
func Details(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return ""
	}
	return string(data)
}
