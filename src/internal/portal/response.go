package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// loginResponse is the JSON object returned by the eportal login interface.
type loginResponse struct {
	Result  *flexInt `json:"result"`
	Msg     string   `json:"msg"`
	RetCode *flexInt `json:"ret_code,omitempty"`
}

// flexInt accepts both 1 and "1".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	*f = flexInt(n)
	return nil
}

// stripJSONP removes a "callback(" prefix and ");" suffix when present.
func stripJSONP(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty response")
	}
	if body[0] == '{' {
		return body, nil
	}

	open := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if open < 0 || end < open {
		return nil, errors.New("response is neither JSON nor JSONP")
	}
	return bytes.TrimSpace(body[open+1 : end]), nil
}

func parseLoginResponse(body []byte) (*loginResponse, error) {
	payload, err := stripJSONP(body)
	if err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("invalid login response: %w", err)
	}
	if resp.Result == nil {
		return nil, errors.New("login response has no result field")
	}
	return &resp, nil
}
