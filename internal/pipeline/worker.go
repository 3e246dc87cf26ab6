package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/textwash/internal/reader"
	"github.com/dgallion1/textwash/internal/sanitize"
)

// Worker processes a single sanitization job.
type Worker struct {
	svc         *sanitize.Service
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(svc *sanitize.Service, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		svc:         svc,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs a job through read -> sanitize and stores the result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Read the source document into markup.
	job.SetStatus(StatusReading, "reading")
	rd, err := reader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reading")
		return
	}
	if pdfReader, ok := rd.(*reader.PDFReader); ok {
		pdfReader.FallbackPdftotext = w.pdfFallback
	}

	markup, err := rd.Read(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("read failed", "error", err)
		job.AddError(fmt.Sprintf("read: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}
	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "reading")
		return
	}

	// Phase 2: Sanitize.
	job.SetStatus(StatusSanitizing, "sanitizing")
	out, err := w.svc.Sanitize(markup, job.Options)
	if err != nil {
		log.Error("sanitize failed", "error", err)
		job.AddError(fmt.Sprintf("sanitize: %s", err))
		job.SetStatus(StatusFailed, "sanitizing")
		return
	}

	job.SetResult(out, ContentHashHex([]byte(markup)))
	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "input_bytes", len(markup), "output_bytes", len(out))
}
