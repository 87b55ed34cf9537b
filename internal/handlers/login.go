package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/auth"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if h.auth.CurrentViewer(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := h.data(r, "Masuk")
	if r.URL.Query().Get("reset") == "1" {
		data["Notice"] = "Kata sandi berhasil diubah. Silakan masuk kembali."
	}
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "login.html", data)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	data["Email"] = email
	if email == "" || password == "" {
		data["Error"] = "Email dan kata sandi wajib diisi."
		h.render(w, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	_, err := h.auth.SignIn(w, email, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		data["Error"] = "Email atau kata sandi salah."
		h.render(w, http.StatusUnauthorized, "login.html", data)
		return
	case err != nil:
		log.Error().Err(err).Msg("sign in")
		data["Error"] = "Terjadi kesalahan. Silakan coba lagi."
		h.render(w, http.StatusInternalServerError, "login.html", data)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "Lupa kata sandi")
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "forgot.html", data)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	data["Email"] = email
	if _, err := mail.ParseAddress(email); err != nil {
		data["Error"] = "Masukkan alamat email yang valid."
		h.render(w, http.StatusUnprocessableEntity, "forgot.html", data)
		return
	}
	if err := h.auth.RequestReset(r.Context(), email); err != nil {
		log.Error().Err(err).Msg("request password reset")
	}
	data["Sent"] = true
	h.render(w, http.StatusOK, "forgot.html", data)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	data := h.data(r, "Atur ulang kata sandi")
	data["Token"] = token
	data["MinLength"] = auth.MinPasswordLength

	if err := h.auth.CheckResetToken(token); err != nil {
		data["Valid"] = false
		data["Error"] = "Tautan tidak valid atau sudah kedaluwarsa."
		h.render(w, http.StatusBadRequest, "reset.html", data)
		return
	}
	data["Valid"] = true
	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "reset.html", data)
		return
	}

	err := h.auth.ResetPassword(token, r.FormValue("password"), r.FormValue("confirm"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/login?reset=1", http.StatusSeeOther)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordMismatch):
		data["Error"] = err.Error()
		h.render(w, http.StatusUnprocessableEntity, "reset.html", data)
	case errors.Is(err, auth.ErrResetLink):
		data["Valid"] = false
		data["Error"] = "Tautan tidak valid atau sudah kedaluwarsa."
		h.render(w, http.StatusBadRequest, "reset.html", data)
	default:
		log.Error().Err(err).Msg("reset password")
		data["Error"] = "Terjadi kesalahan. Silakan coba lagi."
		h.render(w, http.StatusInternalServerError, "reset.html", data)
	}
}
