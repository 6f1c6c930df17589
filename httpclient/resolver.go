package httpclient

import (
	"github.com/kbukum/restkit/status"
)

// Resolve turns a transport response into a payload or an *Error.
//
// 1xx and 3xx responses resolve to an empty payload; they are not
// followed or reported.
func Resolve(resp *Response) (*Payload, error) {
	code := resp.StatusCode

	switch status.Classify(code) {
	case status.Successful:
		if code == status.NoContent {
			return emptyPayload(), nil
		}
		if resp.IsJSON() {
			var data any
			if err := resp.JSON(&data); err != nil {
				return nil, NewError(code, resp.Text(), MetaSuccessParse)
			}
			return &Payload{Data: data, raw: resp.Body}, nil
		}
		return &Payload{Text: resp.Text(), Response: resp}, nil

	case status.Failed:
		if resp.IsJSON() {
			var data any
			if err := resp.JSON(&data); err != nil {
				return nil, NewError(code, resp.Text(), MetaJSONErrorParse)
			}
			if data == nil {
				// A literal null is data the server sent, not missing data.
				return nil, NewError(code, "null", MetaJSONError)
			}
			return nil, NewError(code, data, MetaJSONError)
		}
		return nil, NewError(code, resp.Text(), MetaPlainError)
	}

	return emptyPayload(), nil
}
