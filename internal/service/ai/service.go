package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/swasthyaid/health-api/internal/storage"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/gemini"
	"github.com/swasthyaid/health-api/pkg/metrics"
)

const translatePrompt = `You are a medical assistant. Translate the following clinical text into clear, simple language for patients. Keep it accurate, concise and friendly, and explain terms where needed. Return short paragraphs or bullet points.

%s`

const summarizePrompt = `Please analyze this medical document and provide: 1) a concise summary of the key medical information (2-3 sentences), 2) main findings or diagnosis, 3) key recommendations or prescribed treatments. Format it clearly with bullet points and make it easy to understand for patients.`

const extractPrompt = `Extract all text content from this document verbatim. Preserve the reading order and do not add commentary.`

type TranslateResult struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
}

type SummarizeResult struct {
	FilePath string `json:"file_path"`
	Summary  string `json:"summary"`
}

type ExtractResult struct {
	FilePath string `json:"file_path"`
	Text     string `json:"text"`
}

type Service struct {
	client  *gemini.Client
	store   storage.Store
	metrics *metrics.Metrics
}

func NewService(client *gemini.Client, store storage.Store, m *metrics.Metrics) *Service {
	return &Service{client: client, store: store, metrics: m}
}

// Translate rewrites clinical text in plain language. Upstream quota and
// billing failures keep their original status codes.
func (s *Service) Translate(ctx context.Context, medicalText string) (*TranslateResult, error) {
	if strings.TrimSpace(medicalText) == "" {
		return nil, apperrors.BadRequest("medical text is required", nil)
	}

	reply, err := s.client.GenerateText(ctx, fmt.Sprintf(translatePrompt, medicalText), 2048)
	if err != nil {
		s.metrics.UpstreamAICalls.WithLabelValues("translate", "error").Inc()
		return nil, err
	}
	s.metrics.UpstreamAICalls.WithLabelValues("translate", "success").Inc()

	return &TranslateResult{
		OriginalText:   medicalText,
		TranslatedText: strings.TrimSpace(reply),
	}, nil
}

// Summarize downloads a stored document and asks the model for a patient-
// friendly summary.
func (s *Service) Summarize(ctx context.Context, filePath string) (*SummarizeResult, error) {
	data, err := s.loadDocument(filePath)
	if err != nil {
		return nil, err
	}

	summary, err := s.client.GenerateFromDocument(ctx, summarizePrompt, "application/pdf", data, 2048)
	if err != nil {
		s.metrics.UpstreamAICalls.WithLabelValues("summarize", "error").Inc()
		return nil, err
	}
	s.metrics.UpstreamAICalls.WithLabelValues("summarize", "success").Inc()

	return &SummarizeResult{
		FilePath: filePath,
		Summary:  strings.TrimSpace(summary),
	}, nil
}

// ExtractText OCRs a stored document and returns its raw text.
func (s *Service) ExtractText(ctx context.Context, filePath string) (*ExtractResult, error) {
	data, err := s.loadDocument(filePath)
	if err != nil {
		return nil, err
	}

	text, err := s.client.GenerateFromDocument(ctx, extractPrompt, "application/pdf", data, 4096)
	if err != nil {
		s.metrics.UpstreamAICalls.WithLabelValues("extract", "error").Inc()
		return nil, err
	}
	s.metrics.UpstreamAICalls.WithLabelValues("extract", "success").Inc()

	return &ExtractResult{
		FilePath: filePath,
		Text:     strings.TrimSpace(text),
	}, nil
}

func (s *Service) loadDocument(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, apperrors.BadRequest("file path is required", nil)
	}
	data, err := s.store.Load(filePath)
	if err != nil {
		return nil, apperrors.NotFound("document", err)
	}
	return data, nil
}
