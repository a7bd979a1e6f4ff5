package ui

import (
	"net/http"
	"strconv"
	"time"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/middleware"
	"amonic/skydesk/internal/services"
)

const userPage = "user.html"

// UserPanelHandler renders the login history with the current session clock
func (h *UIHandler) UserPanelHandler(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "User panel")

	// Without an open backend session the clock counts from the portal login.
	since := time.Now()
	if s := auth.GetSession(r.Context()); s != nil {
		since = s.LoginAt()
	}

	panel, err := h.userSessions.Panel(r.Context())
	if err != nil {
		data["Alert"] = services.Message(err)
	} else {
		data["Panel"] = panel
		if panel.Current != nil {
			since = panel.Current.LoginTime
		}
	}
	data["Since"] = since.Unix()
	data["Elapsed"] = services.FormatElapsed(h.userSessions.Elapsed(since))
	RenderTemplate(w, userPage, data)
}

// ClockHandler handles GET /user/clock?since=<unix seconds>
func (h *UIHandler) ClockHandler(w http.ResponseWriter, r *http.Request) {
	secs, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil {
		middleware.WriteAlert(w, r, http.StatusBadRequest, "danger", "Invalid session start")
		return
	}
	elapsed := h.userSessions.Elapsed(time.Unix(secs, 0))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(services.FormatElapsed(elapsed)))
}
