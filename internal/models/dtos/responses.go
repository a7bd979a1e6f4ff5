package dtos

// APIResponse is the envelope for the portal's own JSON endpoints.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// BackendMessage is the error/message body the reservation backend returns
// alongside non-2xx statuses. Any of the fields may be set.
type BackendMessage struct {
	Detail  any    `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the most specific message in the body.
func (m BackendMessage) Text() string {
	switch d := m.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case []any:
		if len(d) > 0 {
			if s, ok := d[0].(string); ok {
				return s
			}
		}
	case map[string]any:
		for _, v := range d {
			if list, ok := v.([]any); ok && len(list) > 0 {
				if s, ok := list[0].(string); ok {
					return s
				}
			}
		}
	}
	if m.Error != "" {
		return m.Error
	}
	return m.Message
}
