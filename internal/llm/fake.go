package llm

import "context"

// Fake is a scripted Client for tests. Responses are returned in order; when
// the script runs out, the last response repeats. A non-nil Err fails every
// call.
type Fake struct {
	Responses []Response
	Err       error

	// Requests records every request received, in order.
	Requests []Request

	next int
}

// Complete returns the next scripted response.
func (f *Fake) Complete(_ context.Context, req Request) (Response, error) {
	f.Requests = append(f.Requests, req)

	if f.Err != nil {
		return Response{}, f.Err
	}
	if len(f.Responses) == 0 {
		return Response{Content: ""}, nil
	}

	resp := f.Responses[f.next]
	if f.next < len(f.Responses)-1 {
		f.next++
	}
	return resp, nil
}
