package form

import (
	"sync"
	"time"
)

// Presenter is everything a controller needs from the page it drives.
// Controllers call it while holding their own lock, so implementations must
// not call back into the controller.
type Presenter interface {
	RenderField(name FieldName, state FieldState)
	// RenderStrength shows ind, or hides the indicator when ind is nil.
	RenderStrength(ind *Indicator)
	SetChecked(name FieldName, checked bool)
	SetPasswordVisible(name FieldName, visible bool)
	Focus(name FieldName)
	SetBusy(busy bool)
	Notify(n Notice)
	Navigate(target string)
}

// View is a point-in-time copy of a Page, safe to serialise. Password values
// are never included.
type View struct {
	Fields          map[FieldName]FieldState `json:"fields"`
	Checked         map[FieldName]bool       `json:"checked,omitempty"`
	PasswordVisible map[FieldName]bool       `json:"password_visible,omitempty"`
	Strength        *Indicator               `json:"strength,omitempty"`
	Focus           FieldName                `json:"focus,omitempty"`
	Busy            bool                     `json:"busy"`
	Notice          *Notice                  `json:"notice,omitempty"`
	Location        string                   `json:"location,omitempty"`
	Navigations     int                      `json:"navigations"`
}

// Page is an in-memory Presenter. Non-blocking notices are dismissed after
// the configured lifetime; a new notice replaces the current one.
type Page struct {
	mu             sync.Mutex
	fields         map[FieldName]FieldState
	checked        map[FieldName]bool
	visible        map[FieldName]bool
	strength       *Indicator
	focus          FieldName
	busy           bool
	notice         *Notice
	noticeSeq      uint64
	noticeTimer    *time.Timer
	noticeLifetime time.Duration
	location       string
	navigations    int
	closed         bool
}

func NewPage(noticeLifetime time.Duration) *Page {
	return &Page{
		fields:         make(map[FieldName]FieldState),
		checked:        make(map[FieldName]bool),
		visible:        make(map[FieldName]bool),
		noticeLifetime: noticeLifetime,
	}
}

func (p *Page) RenderField(name FieldName, state FieldState) {
	p.mu.Lock()
	p.fields[name] = state
	p.mu.Unlock()
}

func (p *Page) RenderStrength(ind *Indicator) {
	p.mu.Lock()
	if ind != nil {
		cp := *ind
		ind = &cp
	}
	p.strength = ind
	p.mu.Unlock()
}

func (p *Page) SetChecked(name FieldName, checked bool) {
	p.mu.Lock()
	p.checked[name] = checked
	p.mu.Unlock()
}

func (p *Page) SetPasswordVisible(name FieldName, visible bool) {
	p.mu.Lock()
	p.visible[name] = visible
	p.mu.Unlock()
}

func (p *Page) Focus(name FieldName) {
	p.mu.Lock()
	p.focus = name
	p.mu.Unlock()
}

func (p *Page) SetBusy(busy bool) {
	p.mu.Lock()
	p.busy = busy
	p.mu.Unlock()
}

func (p *Page) Notify(n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.noticeSeq++
	seq := p.noticeSeq
	p.notice = &n
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
	if n.Blocking || p.noticeLifetime <= 0 {
		return
	}
	p.noticeTimer = time.AfterFunc(p.noticeLifetime, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		// a newer notice owns the slot now
		if p.noticeSeq == seq {
			p.notice = nil
			p.noticeTimer = nil
		}
	})
}

// Dismiss clears the current notice, blocking or not.
func (p *Page) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.noticeSeq++
	p.notice = nil
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
}

func (p *Page) Navigate(target string) {
	p.mu.Lock()
	p.location = target
	p.navigations++
	p.mu.Unlock()
}

// Field returns the raw state of one field, passwords included.
func (p *Page) Field(name FieldName) FieldState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fields[name]
}

// Snapshot copies the page for rendering.
func (p *Page) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Fields:          make(map[FieldName]FieldState, len(p.fields)),
		Checked:         make(map[FieldName]bool, len(p.checked)),
		PasswordVisible: make(map[FieldName]bool, len(p.visible)),
		Focus:           p.focus,
		Busy:            p.busy,
		Location:        p.location,
		Navigations:     p.navigations,
	}
	for name, st := range p.fields {
		if name == FieldPassword || name == FieldConfirmPassword {
			st.RawValue = ""
		}
		v.Fields[name] = st
	}
	for name, c := range p.checked {
		v.Checked[name] = c
	}
	for name, vis := range p.visible {
		v.PasswordVisible[name] = vis
	}
	if p.strength != nil {
		ind := *p.strength
		v.Strength = &ind
	}
	if p.notice != nil {
		n := *p.notice
		v.Notice = &n
	}
	return v
}

// Close stops the dismissal timer; later notices are dropped.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
}
