package form

// NoticeKind selects the notice styling.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a page-level message. Blocking notices stand in for alert()
// and stay until dismissed; the rest expire on their own.
type Notice struct {
	Kind     NoticeKind `json:"kind"`
	Message  string     `json:"message"`
	Blocking bool       `json:"blocking,omitempty"`
}
