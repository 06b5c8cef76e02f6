package host

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/vango-dev/toastkit/internal/errors"
	"github.com/vango-dev/toastkit/pkg/toast"
)

// maxBodyBytes caps request bodies on the API.
const maxBodyBytes = 64 << 10

// ShowRequest is the body of POST /api/toasts. Unset optional fields fall
// back to the service defaults. DurationMS is capped at 24h.
type ShowRequest struct {
	Message        string `json:"message" validate:"required,max=2000"`
	Type           string `json:"type" validate:"omitempty,oneof=success error warning info default"`
	DurationMS     *int64 `json:"duration_ms" validate:"omitempty,min=0,max=86400000"`
	Position       string `json:"position" validate:"omitempty,oneof=top-left top-center top-right top-full bottom-left bottom-center bottom-right bottom-full"`
	Closeable      *bool  `json:"closeable"`
	ShowIcon       *bool  `json:"show_icon"`
	DismissOnClick *bool  `json:"dismiss_on_click"`
	PauseOnHover   *bool  `json:"pause_on_hover"`
	Icon           string `json:"icon" validate:"max=16"`
	CustomClass    string `json:"custom_class" validate:"max=128"`
	DataTest       string `json:"data_test" validate:"max=128"`
	ActionLabel    string `json:"action_label" validate:"max=64"`
}

// ShowResponse is returned by POST /api/toasts.
type ShowResponse struct {
	ID string `json:"id"`
}

// CountResponse is returned by GET /api/toasts/count.
type CountResponse struct {
	Active     int              `json:"active"`
	Containers int              `json:"containers"`
	Positions  []toast.Position `json:"positions"`
}

// ToastResponse describes one live toast.
type ToastResponse struct {
	ID         string         `json:"id"`
	Type       toast.Type     `json:"type"`
	Position   toast.Position `json:"position"`
	Message    string         `json:"message,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Closeable  bool           `json:"closeable"`
	CreatedAt  time.Time      `json:"created_at"`
}

// InteractionResponse reports whether an interaction changed the toast.
type InteractionResponse struct {
	Handled bool `json:"handled"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the request and returns a T005 error naming the first
// offending field.
func (req *ShowRequest) Validate() error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.New(errors.CodeValidationFailed).
			WithField(fe.Field()).
			WithDetail("%s failed the %q check.", fe.Field(), fe.Tag())
	}
	return errors.New(errors.CodeValidationFailed).Wrap(err)
}

// Options converts the request into toast options. onAction runs on the
// loop when the action button is pressed.
func (req *ShowRequest) Options(onAction func()) []toast.Option {
	var opts []toast.Option
	if t, ok := toast.ParseType(req.Type); ok {
		opts = append(opts, toast.WithType(t))
	}
	if req.DurationMS != nil {
		opts = append(opts, toast.WithDuration(time.Duration(*req.DurationMS)*time.Millisecond))
	}
	if p, ok := toast.ParsePosition(req.Position); ok {
		opts = append(opts, toast.WithPosition(p))
	}
	if req.Closeable != nil {
		opts = append(opts, toast.WithCloseable(*req.Closeable))
	}
	if req.ShowIcon != nil {
		opts = append(opts, toast.WithShowIcon(*req.ShowIcon))
	}
	if req.DismissOnClick != nil {
		opts = append(opts, toast.WithDismissOnClick(*req.DismissOnClick))
	}
	if req.PauseOnHover != nil {
		opts = append(opts, toast.WithPauseOnHover(*req.PauseOnHover))
	}
	if req.Icon != "" {
		opts = append(opts, toast.WithIcon(req.Icon))
	}
	if req.CustomClass != "" {
		opts = append(opts, toast.WithCustomClass(req.CustomClass))
	}
	if req.DataTest != "" {
		opts = append(opts, toast.WithDataTest(req.DataTest))
	}
	if req.ActionLabel != "" {
		opts = append(opts, toast.WithAction(req.ActionLabel, onAction))
	}
	return opts
}

func (h *Host) handleShow(w http.ResponseWriter, r *http.Request) {
	var req ShowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger := h.logger.With("request_id", middleware.GetReqID(r.Context()))
	var ref *toast.Ref
	opts := req.Options(func() {
		logger.Info("toast action pressed", "toast_id", ref.ID(), "label", req.ActionLabel)
	})
	if err := h.do(r.Context(), func() {
		ref = h.service.Show(toast.Text(req.Message), opts...)
	}); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.Debug("toast shown", "toast_id", ref.ID())
	writeJSON(w, http.StatusCreated, ShowResponse{ID: ref.ID()})
}

func (h *Host) handleCount(w http.ResponseWriter, r *http.Request) {
	var resp CountResponse
	if err := h.do(r.Context(), func() {
		resp = CountResponse{
			Active:     h.service.ActiveCount(),
			Containers: h.service.ContainerCount(),
			Positions:  h.service.Positions(),
		}
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	if resp.Positions == nil {
		resp.Positions = []toast.Position{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Host) handleLookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		resp ToastResponse
		ok   bool
	)
	if err := h.do(r.Context(), func() {
		var inst *toast.Instance
		inst, ok = h.service.Lookup(id)
		if !ok {
			return
		}
		resp = ToastResponse{
			ID:         inst.ID,
			Type:       inst.Config.Type,
			Position:   inst.Config.Position,
			DurationMS: inst.Config.Duration.Milliseconds(),
			Closeable:  inst.Config.Closeable,
			CreatedAt:  inst.CreatedAt,
		}
		if !inst.IsTemplate() {
			resp.Message = inst.Message.Text
		}
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		h.writeError(w, r, unknownToast(id))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Host) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var ok bool
	if err := h.do(r.Context(), func() {
		var inst *toast.Instance
		if inst, ok = h.service.Lookup(id); ok {
			inst.Ref.Dismiss()
		}
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		h.writeError(w, r, unknownToast(id))
		return
	}
	writeJSON(w, http.StatusAccepted, ShowResponse{ID: id})
}

func (h *Host) handleDismissAll(w http.ResponseWriter, r *http.Request) {
	var n int
	if err := h.do(r.Context(), func() {
		n = h.service.ActiveCount()
		h.service.DismissAll()
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"dismissed": n})
}

func (h *Host) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := toast.ParseInteraction(chi.URLParam(r, "interaction"))
	if !ok {
		h.writeError(w, r, errors.New(errors.CodeInvalidInteraction).
			WithField("interaction").
			WithDetail("%q is not a toast interaction.", chi.URLParam(r, "interaction")))
		return
	}

	handled, found, err := h.interact(r, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, unknownToast(id))
		return
	}
	writeJSON(w, http.StatusOK, InteractionResponse{Handled: handled})
}

// interact delivers in to the toast on the loop. found is false when the
// toast is no longer active.
func (h *Host) interact(r *http.Request, id string, in toast.Interaction) (handled, found bool, err error) {
	err = h.do(r.Context(), func() {
		if _, found = h.service.Lookup(id); found {
			handled = h.service.Interact(id, in)
		}
	})
	return handled, found, err
}

func unknownToast(id string) *errors.ToastError {
	return errors.New(errors.CodeUnknownToast).WithDetail("No active toast has id %q.", id)
}

// decodeJSON reads a single JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New(errors.CodeInvalidBody).Wrap(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New(errors.CodeInvalidBody).WithDetail("The body must contain a single JSON object.")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responds with the JSON form of err and its HTTP status.
func (h *Host) writeError(w http.ResponseWriter, r *http.Request, err error) {
	te := errors.FromError(err, errors.CodeServiceUnavailable)
	status := te.HTTPStatus()

	level := h.logger.Debug
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		"path", r.URL.Path,
		"code", te.Code,
		"status", status,
		"error", err,
		"request_id", middleware.GetReqID(r.Context()))

	writeJSON(w, status, te)
}
