package http

import (
	"bytes"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
	"relocation-calculator/service"
)

const sessionCookie = "relocalc_session"

type fieldView struct {
	Name  string
	Label string
	Value string
	Error string
}

type resultView struct {
	OriginalOutOfPocket    string
	AlternativeOutOfPocket string
	Difference             string
	GuestRefund            string
	PropertyInvoice        string
	Policy                 domain.InvoicePolicy
}

type pageData struct {
	Variant      domain.Variant
	OtherVariant domain.Variant
	Fields       []fieldView
	Result       *resultView
	Notice       *service.Notice
}

// FormHandler serves the HTML calculator form. Each browser session keeps its
// latest form, result included, in the FormStore.
type FormHandler struct {
	service   *service.RelocationService
	store     *service.FormStore
	clipboard repository.Clipboard
	variant   domain.Variant
	logger    *logrus.Entry
}

func NewFormHandler(
	svc *service.RelocationService,
	store *service.FormStore,
	clipboard repository.Clipboard,
	variant domain.Variant,
) *FormHandler {
	return &FormHandler{
		service:   svc,
		store:     store,
		clipboard: clipboard,
		variant:   variant,
		logger:    logrus.WithField("component", "relocation-form"),
	}
}

func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.requestVariant(w, r)
	if !ok {
		return
	}
	session := h.session(w, r)
	h.render(w, http.StatusOK, h.store.Load(r.Context(), session, variant))
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.requestVariant(w, r)
	if !ok {
		return
	}
	session := h.session(w, r)

	form := h.store.Load(r.Context(), session, variant)
	for _, f := range variant.Fields() {
		form = form.Change(f, r.PostFormValue(string(f)))
	}

	status := http.StatusOK
	form, ok = form.BeginSubmit()
	if ok {
		result, err := h.service.Calculate(r.Context(), variant, form.Values)
		form = form.CompleteSubmit(result, err)
	} else {
		status = http.StatusUnprocessableEntity
	}

	h.save(r, session, form)
	h.render(w, status, form)
}

func (h *FormHandler) Copy(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(form service.Form) service.Form {
		form = form.Copy(h.clipboard)
		if form.Notice != nil && form.Notice.Kind == service.NoticeError {
			h.logger.WithField("notice", form.Notice.Text).Warn("copy to clipboard failed")
		}
		return form
	})
}

// Reset drops the session's stored form. The next request starts fresh.
func (h *FormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.requestVariant(w, r)
	if !ok {
		return
	}
	session := h.session(w, r)
	form := h.store.Load(r.Context(), session, variant).Reset()
	if err := h.store.Delete(r.Context(), session); err != nil {
		h.logger.WithError(err).WithField("session", session).Warn("failed to clear form")
	}
	h.render(w, http.StatusOK, form)
}

func (h *FormHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, service.Form.DismissNotice)
}

func (h *FormHandler) update(w http.ResponseWriter, r *http.Request, fn func(service.Form) service.Form) {
	variant, ok := h.requestVariant(w, r)
	if !ok {
		return
	}
	session := h.session(w, r)
	form := fn(h.store.Load(r.Context(), session, variant))
	h.save(r, session, form)
	h.render(w, http.StatusOK, form)
}

func (h *FormHandler) save(r *http.Request, session string, form service.Form) {
	// Not critical if it fails, the page still shows the form
	if err := h.store.Save(r.Context(), session, form); err != nil {
		h.logger.WithError(err).WithField("session", session).Warn("failed to save form")
	}
}

// requestVariant reads the variant from the query or the posted form and
// falls back to the configured one.
func (h *FormHandler) requestVariant(w http.ResponseWriter, r *http.Request) (domain.Variant, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return "", false
	}
	raw := r.FormValue("variant")
	if raw == "" {
		return h.variant, true
	}
	variant, err := service.ParseVariant(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return variant, true
}

func (h *FormHandler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *FormHandler) render(w http.ResponseWriter, status int, form service.Form) {
	data := pageData{
		Variant:      form.Variant,
		OtherVariant: domain.VariantDual,
		Notice:       form.Notice,
	}
	if form.Variant == domain.VariantDual {
		data.OtherVariant = domain.VariantSingle
	}
	for _, f := range form.Variant.Fields() {
		data.Fields = append(data.Fields, fieldView{
			Name:  string(f),
			Label: f.Label(),
			Value: form.Values[f],
			Error: form.FieldError(f),
		})
	}
	if res := form.Result; res != nil {
		data.Result = &resultView{
			OriginalOutOfPocket:    service.FormatAmount(res.OriginalOutOfPocket),
			AlternativeOutOfPocket: service.FormatAmount(res.AlternativeOutOfPocket),
			Difference:             service.FormatAmount(res.Difference),
			GuestRefund:            service.FormatAmount(res.GuestRefund),
			PropertyInvoice:        service.FormatAmount(res.PropertyInvoice),
			Policy:                 res.Policy,
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.WithError(err).Error("failed to render form")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Warn("failed to write form")
	}
}
