package models

// FingeringOutput is the JSON shape of a fingering search
type FingeringOutput struct {
	Instrument   string          `json:"instrument"`
	Distance     float64         `json:"distance"`
	Combinations int             `json:"combinations"`
	Steps        []FingeringStep `json:"steps"`
}

// FingeringStep is one note and where to play it
type FingeringStep struct {
	Note     string  `json:"note"`
	Pitch    float64 `json:"pitch"`
	Position int     `json:"position"`
	String   int     `json:"string"`
	Fret     int     `json:"fret"`
}

// NoteOutput is a note in scale/triad listings
type NoteOutput struct {
	Name  string  `json:"name"`
	Pitch float64 `json:"pitch"`
}
