package api

import (
	"net/http"
	"time"

	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/models"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/go-chi/chi/v5"
)

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
	}
}

func OpenLoginHandler(pages *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pv, err := pages.OpenLogin(ClientID(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, pageResponse(pv))
	}
}

// OpenSignupHandler opens a signup view, prefilled from the email query
// parameter the login page's signup link carries.
func OpenSignupHandler(pages *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		pv, err := pages.OpenSignup(ClientID(r.Context()), email)
		if err != nil {
			respondError(w, err)
			return
		}
		if email != "" {
			logging.DebugLog("Signup view [%s] prefilled [%s]", utils.ShortID(pv.ID), utils.HashEmail(email))
		}
		respondJSON(w, http.StatusCreated, pageResponse(pv))
	}
}

// withPage resolves {id} for the calling client before running fn.
func withPage(pages *Pages, fn func(w http.ResponseWriter, r *http.Request, pv *PageView)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pv, err := pages.Get(chi.URLParam(r, "id"), ClientID(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		fn(w, r, pv)
	}
}

func SnapshotHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

func InputHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		var req models.InputRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := pv.Ctrl.Input(form.FieldName(req.Field), req.Value); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

func BlurHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		var req models.FieldRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := pv.Ctrl.Blur(form.FieldName(req.Field)); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

func ToggleHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		var req models.FieldRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := pv.Ctrl.TogglePasswordVisibility(form.FieldName(req.Field)); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

func CheckHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		var req models.CheckRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := pv.Ctrl.Check(form.FieldName(req.Field), *req.Checked); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

// ActionHandler handles the login page's signup link, forgot-password link
// and social buttons.
func ActionHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		var req models.ActionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		lc, err := pv.Login()
		if err != nil {
			respondError(w, err)
			return
		}

		var target string
		switch req.Action {
		case "signup":
			target = lc.OpenSignup()
		case "forgot":
			lc.ForgotPassword()
		case "social":
			p, err := form.ParseProvider(req.Provider)
			if err == nil {
				err = lc.SocialLogin(p)
			}
			if err != nil {
				respondError(w, err)
				return
			}
		}
		respondJSON(w, http.StatusOK, models.ActionResponse{PageResponse: pageResponse(pv), Target: target})
	})
}

// SubmitHandler starts a submission. A rejected attempt is still 200: the
// reasons are in the view. Use AwaitHandler to wait for a Submitting view.
func SubmitHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		start := time.Now()
		state, err := pv.Ctrl.Submit(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		logging.InfoLog("Submit [%s] %s -> %s %v", utils.ShortID(pv.ID), pv.Kind, state, time.Since(start))

		code := http.StatusOK
		if state == form.Submitting {
			code = http.StatusAccepted
		}
		respondJSON(w, code, pageResponse(pv))
	})
}

// AwaitHandler long-polls until the view's submission settles, the timeout
// passes, or the client goes away.
func AwaitHandler(pages *Pages, timeout time.Duration) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		// register before reading the state so a settle in between is not lost
		ch, release := pages.Registry().Register(pv.ID)
		defer release()

		if pv.Ctrl.State() != form.Submitting {
			respondJSON(w, http.StatusOK, models.AwaitResponse{PageResponse: pageResponse(pv), Settled: true})
			return
		}

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case _, ok := <-ch:
			if !ok {
				respondError(w, ErrPageNotFound)
				return
			}
			respondJSON(w, http.StatusOK, models.AwaitResponse{PageResponse: pageResponse(pv), Settled: true})
		case <-timer.C:
			respondJSON(w, http.StatusOK, models.AwaitResponse{PageResponse: pageResponse(pv), Settled: false})
		case <-r.Context().Done():
			logging.DebugLog("Await [%s] abandoned by client", utils.ShortID(pv.ID))
		}
	})
}

func ResetHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		pv.Ctrl.Reset()
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}

func DismissHandler(pages *Pages) http.HandlerFunc {
	return withPage(pages, func(w http.ResponseWriter, r *http.Request, pv *PageView) {
		pv.Page.Dismiss()
		respondJSON(w, http.StatusOK, pageResponse(pv))
	})
}
