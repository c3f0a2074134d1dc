package models

import "github.com/Goofygiraffe06/authform/internal/form"

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// PageResponse is returned by every page view endpoint.
type PageResponse struct {
	ID    string     `json:"id"`
	Kind  string     `json:"kind"`
	State form.State `json:"state"`
	View  form.View  `json:"view"`
}

// AwaitResponse reports whether the submission settled before the poll
// timed out.
type AwaitResponse struct {
	PageResponse
	Settled bool `json:"settled"`
}

// ActionResponse carries the navigation target of a link click, if any.
type ActionResponse struct {
	PageResponse
	Target string `json:"target,omitempty"`
}
