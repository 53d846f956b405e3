package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Column is a single named value of an audit row.
type Column struct {
	Name  string
	Value interface{}
}

// AuditRecord is written once and never read back.
type AuditRecord struct {
	Table   string
	Columns []Column
}

// Names returns column names in order.
func (r *AuditRecord) Names() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Name
	}
	return out
}

func (r *AuditRecord) Values() []interface{} {
	out := make([]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Value
	}
	return out
}

// Map returns the record as a JSON-ready object.
func (r *AuditRecord) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Columns))
	for _, c := range r.Columns {
		out[c.Name] = c.Value
	}
	return out
}

// AuditColumnName turns a feature name such as "CCI_14_0.015" into "cci_14_0_015".
func AuditColumnName(feature string) string {
	return strings.ToLower(strings.ReplaceAll(feature, ".", "_"))
}

// NewIndicatorRecord builds the row logged after an indicator prediction.
func NewIndicatorRecord(table string, lastCandleTime int64, res PredictionResult, features FeatureVector) *AuditRecord {
	cols := make([]Column, 0, 3+len(features.Names))
	cols = append(cols,
		Column{Name: "timestamp", Value: lastCandleTime},
		Column{Name: "probability", Value: res.Probability},
		Column{Name: "signal", Value: res.Label.IndicatorWire()},
	)
	for i, name := range features.Names {
		cols = append(cols, Column{Name: AuditColumnName(name), Value: features.Values[i]})
	}
	return &AuditRecord{Table: table, Columns: cols}
}

// NewWindowRecord builds the row logged after a window prediction.
// raw is the request body as received.
func NewWindowRecord(table string, now time.Time, req *WindowRequest, res PredictionResult, raw map[string]interface{}) *AuditRecord {
	candleTime := "N/A"
	if req.CandleTime != nil {
		candleTime = jsonText(req.CandleTime)
	}
	var signal *string
	if req.Signal != nil {
		s := jsonText(req.Signal)
		signal = &s
	}
	return &AuditRecord{
		Table: table,
		Columns: []Column{
			{Name: "timestamp", Value: now.Unix()},
			{Name: "sinal_mt5", Value: signal},
			{Name: "prediction_ia", Value: res.Probability},
			{Name: "candle_time", Value: candleTime},
			{Name: "data_recebida", Value: raw},
		},
	}
}

// jsonText renders a decoded JSON value as text: strings as is, numbers
// without exponent, anything else as JSON.
func jsonText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
