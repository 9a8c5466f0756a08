package history

import (
	"encoding/json"
	"fmt"
)

// Place is the coordinate pair a recent search was answered for.
type Place struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Entry is one recent search. Typed queries carry no Place and are stored as plain
// JSON strings; picked places are stored as {"query","lat","lon"} objects.
type Entry struct {
	Query string
	Place *Place
}

type placeEntry struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Place == nil {
		return json.Marshal(e.Query)
	}
	return json.Marshal(placeEntry{Query: e.Query, Lat: e.Place.Lat, Lon: e.Place.Lon})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var q string
	if err := json.Unmarshal(data, &q); err == nil {
		*e = Entry{Query: q}
		return nil
	}

	var p placeEntry
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("recent search entry: %w", err)
	}
	*e = Entry{Query: p.Query, Place: &Place{Lat: p.Lat, Lon: p.Lon}}
	return nil
}
