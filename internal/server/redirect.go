package server

import (
	"net/http"
	"time"

	"cinefile/internal"
)

type flash struct {
	Notice string
	Error  string
}

// redirectWithNotice stores a one-shot message in an encrypted cookie and
// redirects to path, where takeFlash picks it up.
func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	s.setFlash(w, flash{Notice: notice})
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	s.setFlash(w, flash{Error: msg})
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Service) setFlash(w http.ResponseWriter, f flash) {
	encoded, err := s.cookie.Encode(internal.COOKIE_FLASH_NAME, f)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode flash cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_FLASH_NAME,
		Value:    encoded,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int((time.Minute).Seconds()),
	})
}

func (s *Service) takeFlash(w http.ResponseWriter, r *http.Request) flash {
	var f flash

	cookie, err := r.Cookie(internal.COOKIE_FLASH_NAME)
	if err != nil {
		return f
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_FLASH_NAME,
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	if err := s.cookie.Decode(internal.COOKIE_FLASH_NAME, cookie.Value, &f); err != nil {
		s.logger.WithError(err).Debug("discarding unreadable flash cookie")
		return flash{}
	}

	return f
}
