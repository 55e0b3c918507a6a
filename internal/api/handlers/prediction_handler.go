package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/studentscore/internal/api/views"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/studentscore/pkg/errors"
)

// GenericErrorMessage is shown in place of a result whenever a submission fails.
const GenericErrorMessage = "An error occurred during prediction."

const maxFormBytes = 1 << 20

// Predictor defines the prediction operation used by the handler.
type Predictor interface {
	Predict(ctx context.Context, frame *entities.Frame) (*entities.PredictionResult, error)
}

// AuditRecorder accepts one audit event per submission. It must not fail.
type AuditRecorder interface {
	Record(ctx context.Context, event *entities.AuditEvent)
}

// PageRenderer renders a named template.
type PageRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// PredictionHandler serves the prediction form.
type PredictionHandler struct {
	predictor Predictor
	audit     AuditRecorder
	renderer  PageRenderer
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictor Predictor, audit AuditRecorder, renderer PageRenderer) *PredictionHandler {
	return &PredictionHandler{
		predictor: predictor,
		audit:     audit,
		renderer:  renderer,
	}
}

// ShowForm handles GET /
func (h *PredictionHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.NewHomePage(nil, ""))
}

// Predict handles POST /. Failures are rendered inline with a 200 status.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		h.fail(w, r, apperrors.NewValidationError("invalid form body: "+err.Error()))
		return
	}

	record, err := entities.NewStudentRecord(r.PostForm)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	frame := record.Frame()
	logger.Debug().Msg("Input frame created.")

	result, err := h.predictor.Predict(ctx, frame)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.audit.Record(ctx, entities.NewSuccessAuditEvent(frame, result))

	logger.Info().Float64("prediction", result.Score()).Msg("prediction served")
	h.render(w, r, views.NewHomePage(r.PostForm, formatScore(result.Score())))
}

func (h *PredictionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.audit.Record(r.Context(), entities.NewErrorAuditEvent(err))

	observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Prediction error")
	h.render(w, r, views.NewHomePage(r.PostForm, GenericErrorMessage))
}

func (h *PredictionHandler) render(w http.ResponseWriter, r *http.Request, page views.HomePage) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, views.HomeTemplate, page); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
