package models

// SeriesPoint is one chart sample; Value is nil when the reading had no value.
type SeriesPoint struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// Series is a single line chart derived from the reading history.
type Series struct {
	Key    string        `json:"key"`
	Title  string        `json:"title"`
	Unit   string        `json:"unit"`
	Color  string        `json:"color"`
	Points []SeriesPoint `json:"points"`
	YMin   *float64      `json:"y_min"`
	YMax   *float64      `json:"y_max"`
}
