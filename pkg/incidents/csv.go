package incidents

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/thevoid12/incident-tracker/pkg/audit"
	"github.com/thevoid12/incident-tracker/pkg/auth"
	"github.com/thevoid12/incident-tracker/pkg/rbac"
)

// ImportResult summarizes a CSV bulk import.
type ImportResult struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// ImportError describes one rejected row.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// csvColumns maps header names to CreateRequest fields. Header matching is
// case-insensitive; column order is free.
var csvColumns = map[string]func(*CreateRequest, string){
	"title":            func(r *CreateRequest, v string) { r.Title = v },
	"description":      func(r *CreateRequest, v string) { r.Description = v },
	"status":           func(r *CreateRequest, v string) { r.Status = v },
	"priority":         func(r *CreateRequest, v string) { r.Priority = v },
	"assigned_to":      func(r *CreateRequest, v string) { r.AssignedTo = v },
	"category":         func(r *CreateRequest, v string) { r.Category = v },
	"tags":             func(r *CreateRequest, v string) { r.Tags = v },
	"resolution_notes": func(r *CreateRequest, v string) { r.ResolutionNotes = v },
}

// ImportCSV bulk-creates incidents from CSV data. The first record must be
// a header row containing at least a title column. Rows that fail
// validation are skipped and reported; valid rows are still imported.
func (s *Service) ImportCSV(ctx context.Context, viewer *auth.AuthContext, data io.Reader) (*ImportResult, error) {
	if err := rbac.Require(viewer.Permissions, rbac.PermCreateIncident); err != nil {
		return nil, err
	}

	reader := csv.NewReader(data)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	setters := make([]func(*CreateRequest, string), len(header))
	hasTitle := false
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		setters[i] = csvColumns[key]
		if key == "title" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("CSV header must contain a title column")
	}

	log := logrus.WithFields(logrus.Fields{
		"actor": viewer.Email,
	})

	result := &ImportResult{}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Row: row, Message: err.Error()})
			s.countImportRow("failed")
			continue
		}

		req := CreateRequest{}
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&req, strings.TrimSpace(value))
			}
		}

		if _, err := s.Create(ctx, viewer, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Row: row, Message: err.Error()})
			s.countImportRow("failed")
			log.WithField("row", row).WithError(err).Warn("csv import row rejected")
			continue
		}

		result.Imported++
		s.countImportRow("imported")
	}

	log.WithFields(logrus.Fields{
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("csv import complete")

	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionImportIncidents,
			fmt.Sprintf("imported %d incidents (%d failed)", result.Imported, result.Failed),
			viewer.Email, viewer.UserID)
	}
	return result, nil
}

func (s *Service) countImportRow(result string) {
	if s.metrics != nil {
		s.metrics.CSVImportRowsTotal.WithLabelValues(result).Inc()
	}
}
