// Package server serves the web dashboard.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verte-zerg/maildash/internal/chart"
	"github.com/verte-zerg/maildash/internal/emaillog"
)

const pageTitle = "AI Email Sorting Dashboard"

type section struct {
	Heading string
	ID      string
}

// Section headings in page order; each holds one figure placeholder.
var sections = []section{
	{Heading: "Email Distribution", ID: chart.FolderChartID},
	{Heading: "Email Priority Scores", ID: chart.ScoreChartID},
	{Heading: "Recent Classified Emails", ID: chart.LatestEmailsID},
}

type pageData struct {
	Title    string
	LogPath  string
	Sections []section
	Figures  []chart.Figure
	Rows     int
	Skipped  int
	Error    string
}

func (s *Server) loadTemplates() error {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"json": toJS,
	}).Parse(pageTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	s.page = tmpl
	return nil
}

func (s *Server) handlePage(c *gin.Context) {
	data := pageData{
		Title:    pageTitle,
		LogPath:  s.logPath,
		Sections: sections,
	}
	status := http.StatusOK
	d, err := s.refresher.Refresh(c.Request.Context())
	if err != nil {
		data.Error = err.Error()
		status = errorStatus(err)
	} else {
		data.Figures = d.Figures
		data.Rows = d.Rows
		data.Skipped = d.Skipped
	}

	// Render fully before writing so a failure never leaves a partial page.
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render dashboard: %v", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleDashboard(c *gin.Context) {
	d, err := s.refresher.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	body, err := json.Marshal(d)
	if err != nil {
		s.logger.Error("failed to encode dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to encode dashboard: %v", err)})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// errorStatus maps a refresh failure to an HTTP status. A log that exists but
// cannot be parsed is the client-visible 422; anything else is a server fault.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, emaillog.ErrMalformed), errors.Is(err, emaillog.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toJS(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil
}
