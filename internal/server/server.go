// Package server exposes the upload-triggered pipeline over HTTP: a posted
// export is stored under the data root and processed with today's date.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/pipeline"
	"github.com/Sumatoshi-tech/sprintfang/internal/report"
	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
)

const (
	uploadField = "csv"

	dirPerm = 0o755

	bytesPerMB = 1 << 20
)

// Options configures the upload server.
type Options struct {
	DataDir         string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	MaxUploadMB     int
	Done            burndown.StatusSet
	Logger          *slog.Logger
	Tracer          trace.Tracer
}

// Server handles export uploads and serves the produced reports.
// Pipeline runs are serialized; concurrent uploads queue behind the mutex
// and same-day runs keep last-write-wins snapshot semantics.
type Server struct {
	opts     Options
	logger   *slog.Logger
	runMutex sync.Mutex
}

// New creates a Server. A nil logger selects slog.Default().
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{opts: opts, logger: logger}
}

// Handler returns the HTTP handler with all routes, wrapped in tracing
// middleware when a tracer is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.opts.DataDir))))

	if s.opts.Tracer == nil {
		return mux
	}

	return observability.HTTPMiddleware(s.opts.Tracer, mux)
}

// ListenAndServe starts the HTTP server on the configured port.
func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.opts.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.opts.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.opts.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.opts.IdleTimeoutSec) * time.Second,
	}

	s.logger.Info("upload server starting", "addr", server.Addr, "data_dir", s.opts.DataDir)

	err := server.ListenAndServe()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// indexData is the template model for the index page.
type indexData struct {
	Stamp       string
	HasReports  bool
	SprintText  string
	SprintStart string
	SprintEnd   string
	Message     string
	Reports     []reportLink
}

type reportLink struct {
	Name string
	Href string
}

func (s *Server) handleIndex(rw http.ResponseWriter, hr *http.Request) {
	if hr.URL.Path != "/" {
		http.NotFound(rw, hr)

		return
	}

	stamp := time.Now().Format(snapshot.DateLayout)

	s.renderIndex(hr.Context(), rw, indexData{
		Stamp:      stamp,
		HasReports: len(s.reportLinks(stamp)) > 0,
		Reports:    s.reportLinks(stamp),
	})
}

func (s *Server) handleUpload(rw http.ResponseWriter, hr *http.Request) {
	if hr.Method != http.MethodPost {
		http.Error(rw, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	hr.Body = http.MaxBytesReader(rw, hr.Body, int64(s.opts.MaxUploadMB)*bytesPerMB)

	file, header, err := hr.FormFile(uploadField)
	if err != nil {
		http.Error(rw, "Missing csv upload", http.StatusBadRequest)

		return
	}
	defer file.Close()

	if filepath.Ext(header.Filename) != ".csv" {
		http.Error(rw, "Please upload a CSV file", http.StatusBadRequest)

		return
	}

	today := time.Now()
	stamp := today.Format(snapshot.DateLayout)

	uploadPath, err := s.storeUpload(file, stamp)
	if err != nil {
		s.logger.ErrorContext(hr.Context(), "store upload failed", "error", err)
		http.Error(rw, "Failed to store upload", http.StatusInternalServerError)

		return
	}

	s.runMutex.Lock()
	result, runErr := pipeline.Run(pipeline.Options{
		CSVPath: uploadPath,
		DataDir: s.opts.DataDir,
		Today:   today,
		Done:    s.opts.Done,
		Logger:  s.logger,
	})
	s.runMutex.Unlock()

	if runErr != nil {
		s.logger.ErrorContext(hr.Context(), "pipeline run failed", "error", runErr)
		http.Error(rw, "Processing failed", http.StatusInternalServerError)

		return
	}

	// Window details are display-only; an unparsable window shows as
	// unknown rather than failing the upload.
	data := indexData{
		Stamp:       stamp,
		HasReports:  true,
		SprintText:  "unknown",
		SprintStart: "unknown",
		SprintEnd:   "unknown",
		Message:     fmt.Sprintf("Processed %d records.", len(result.Records)),
		Reports:     s.reportLinks(stamp),
	}

	if result.Window != nil {
		data.SprintText = result.Window.Label
		data.SprintStart = result.Window.Start.Format(snapshot.DateLayout)
		data.SprintEnd = result.Window.End.Format(snapshot.DateLayout)
	}

	s.renderIndex(hr.Context(), rw, data)
}

func (s *Server) storeUpload(file io.Reader, stamp string) (string, error) {
	uploadDir := filepath.Join(s.opts.DataDir, pipeline.UploadSubdir)

	err := os.MkdirAll(uploadDir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	uploadPath := filepath.Join(uploadDir, fmt.Sprintf("upload_%s.csv", stamp))

	target, err := os.Create(uploadPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer target.Close()

	_, err = io.Copy(target, file)
	if err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return uploadPath, nil
}

// reportLinks lists the report files that exist for the given stamp,
// linked relative to the /files/ route.
func (s *Server) reportLinks(stamp string) []reportLink {
	writer := report.NewWriter(filepath.Join(s.opts.DataDir, pipeline.ReportSubdir), stamp)

	candidates := []struct {
		name string
		path string
	}{
		{"snapshot", filepath.Join(s.opts.DataDir, pipeline.ReportSubdir, "snapshot_"+stamp+".csv")},
		{"events", filepath.Join(s.opts.DataDir, pipeline.ReportSubdir, "daily_events_"+stamp+".csv")},
		{"worklogs", filepath.Join(s.opts.DataDir, pipeline.ReportSubdir, "worklogs_"+stamp+".csv")},
		{"worklogs daily", filepath.Join(s.opts.DataDir, pipeline.ReportSubdir, "worklogs_daily_"+stamp+".csv")},
		{"burndown", filepath.Join(s.opts.DataDir, pipeline.ReportSubdir, "burndown_"+stamp+".csv")},
		{"burndown chart", writer.ChartPath()},
	}

	var links []reportLink

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate.path); err != nil {
			continue
		}

		rel, err := filepath.Rel(s.opts.DataDir, candidate.path)
		if err != nil {
			continue
		}

		links = append(links, reportLink{
			Name: candidate.name,
			Href: "/files/" + filepath.ToSlash(rel),
		})
	}

	return links
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>sprintfang</title></head>
<body>
<h1>sprintfang</h1>
<p>Upload a tracker CSV export to process today's snapshot ({{.Stamp}}).</p>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="csv" accept=".csv">
  <button type="submit">Upload and process</button>
</form>
{{if .Message}}<p>{{.Message}}</p>{{end}}
{{if .SprintText}}<p>Sprint: {{.SprintText}} ({{.SprintStart}} .. {{.SprintEnd}})</p>{{end}}
{{if .HasReports}}
<h2>Reports for {{.Stamp}}</h2>
<ul>
{{range .Reports}}  <li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
{{end}}
</body>
</html>
`))

func (s *Server) renderIndex(ctx context.Context, rw http.ResponseWriter, data indexData) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := indexTemplate.Execute(rw, data)
	if err != nil {
		s.logger.ErrorContext(ctx, "render index failed", "error", err)
	}
}
