package repository

import (
	"context"
	"fmt"
	"strings"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/repository"
	xhttp "SignalAPI/pkg/http"
)

// SupabaseSink inserts rows through the PostgREST API in front of a Supabase project.
type SupabaseSink struct {
	baseURL string
	key     string
	client  *xhttp.Client
}

func NewSupabaseSink(baseURL, key string, client *xhttp.Client) (repository.AuditSink, error) {
	if baseURL == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	if client == nil {
		client = xhttp.NewClient()
	}
	return &SupabaseSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  client,
	}, nil
}

func (s *SupabaseSink) Name() string { return "supabase" }

func (s *SupabaseSink) Append(ctx context.Context, rec *models.AuditRecord) error {
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/rest/v1/%s", s.baseURL, rec.Table),
		Headers: map[string]string{
			"apikey":        s.key,
			"Authorization": "Bearer " + s.key,
			"Content-Type":  "application/json",
			"Prefer":        "return=minimal",
		},
		Body: rec.Map(),
	}, nil)
	if err != nil {
		return fmt.Errorf("supabase insert into %s: %w", rec.Table, err)
	}
	return nil
}

func (s *SupabaseSink) Close() error { return nil }
