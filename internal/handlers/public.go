package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kidandcat/firmportal/internal/directory"
)

func (h *Handler) page(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.pages[slug]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data := h.data(r, p.Title)
		data["Page"] = p
		h.render(w, http.StatusOK, "page.html", data)
	}
}

// contact validates the form and reports the outcome inline. Nothing is
// stored or sent.
func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pages["contact"]
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := h.data(r, p.Title)
	data["Page"] = p
	data["Errors"] = map[string]string{}
	data["Sent"] = false

	form := directory.ContactForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	data["Form"] = form

	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, "contact.html", data)
		return
	}

	var ve *directory.ValidationError
	if err := directory.ValidateContact(form); errors.As(err, &ve) {
		data["Errors"] = ve.Fields
		h.render(w, http.StatusUnprocessableEntity, "contact.html", data)
		return
	}
	data["Sent"] = true
	h.render(w, http.StatusOK, "contact.html", data)
}
