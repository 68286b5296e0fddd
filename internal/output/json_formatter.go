package output

import (
	"encoding/json"
)

// JSONFormatter serializes the report's results as pretty-printed JSON at full precision.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	var v any
	switch {
	case r.Run != nil:
		v = r.Run
	case r.Comparison != nil:
		v = r.Comparison
	case r.Strategies != nil:
		v = r.Strategies
	case len(r.Ranking) > 0:
		v = r.Ranking
	default:
		return nil, ErrEmptyReport
	}
	return json.MarshalIndent(v, "", "  ")
}
