package http

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"close"`
	Message string                 `json:"message,omitempty" example:"close is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ValidationErrors is the set of problems found in one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "invalid request"
	}
	msg := v[0].Message
	if len(v) > 1 {
		msg += " (and more)"
	}
	return msg
}
