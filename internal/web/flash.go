package web

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const sessionName = "storefront"

// Flash keeps one-shot user messages in a signed cookie session.
type Flash struct {
	store sessions.Store
}

func NewFlash(secret []byte) *Flash {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flash{store: store}
}

// Add queues msg for the next rendered page.
func (f *Flash) Add(w http.ResponseWriter, r *http.Request, msg string) {
	// A cookie that fails to decode yields a fresh session; ignore that error.
	s, _ := f.store.Get(r, sessionName)
	s.AddFlash(msg)
	if err := s.Save(r, w); err != nil {
		zap.S().Warnw("save flash", "error", err)
	}
}

// Pop returns and clears the queued messages.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []string {
	s, _ := f.store.Get(r, sessionName)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		zap.S().Warnw("clear flash", "error", err)
	}
	msgs := make([]string, 0, len(raw))
	for _, m := range raw {
		if str, ok := m.(string); ok {
			msgs = append(msgs, str)
		}
	}
	return msgs
}

// Redirect flashes msg and answers 302 to url.
func (f *Flash) Redirect(w http.ResponseWriter, r *http.Request, url, msg string) {
	if msg != "" {
		f.Add(w, r, msg)
	}
	http.Redirect(w, r, url, http.StatusFound)
}

type page struct {
	Messages []string    `json:"messages,omitempty"`
	Data     interface{} `json:"data"`
}

// Render writes data together with any pending flash messages.
func (f *Flash) Render(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	Respond(w, status, page{Messages: f.Pop(w, r), Data: data})
}
