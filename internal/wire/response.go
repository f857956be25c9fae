package wire

import "encoding/json"

const (
	StatusComplete   = "complete"
	StatusInProgress = "in_progress"
	StatusError      = "error"

	// UnknownCommandID is echoed by the robot when it does not recognize the
	// command id it was sent.
	UnknownCommandID = "cmd_unknown"
)

// Response correlates to the single command in flight; the robot answers
// every command frame with exactly one of these.
type Response struct {
	CmdID     string `json:"cmd_id"`
	Status    string `json:"status"`
	ErrorInfo string `json:"error_info"`
}

func DecodeResponse(data []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return Response{}, err
	}
	return r, nil
}
