package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/pkg/review"
)

// Request describes one file to review.
type Request struct {
	// Path is the file path, used for context and result labeling.
	Path string

	// Language is the detected language id.
	Language string

	// Source is the full file content.
	Source string
}

// Service runs reviews through a Client: it builds the prompt, sends
// it, and parses the reply into a review result.
type Service struct {
	client       Client
	maxProposals int
}

// NewService creates a review service. maxProposals caps both what the
// prompt asks for and what a reply may deliver.
func NewService(client Client, maxProposals int) *Service {
	return &Service{client: client, maxProposals: maxProposals}
}

// Review runs one file through the provider and returns the parsed
// result. Malformed proposals inside an otherwise valid reply are
// normalized, not rejected; only an unusable reply is an error.
func (s *Service) Review(ctx context.Context, req Request) (*review.Review, error) {
	logger := logging.FromContext(ctx)

	prompt := BuildReviewPrompt(PromptRequest{
		Path:         req.Path,
		Language:     req.Language,
		Source:       req.Source,
		MaxProposals: s.maxProposals,
	})

	logger.Debug("requesting review",
		logging.FieldPath, req.Path,
		logging.FieldProvider, s.client.Name(),
		logging.FieldModel, s.client.Model(),
		logging.FieldLanguage, req.Language)

	reply, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("complete review: %w", err)
	}

	parsed, err := review.ParseReply(reply)
	if err != nil {
		return nil, fmt.Errorf("parse reply for %s: %w", req.Path, err)
	}

	proposals := parsed.Proposals
	if s.maxProposals > 0 && len(proposals) > s.maxProposals {
		logger.Debug("truncating proposals",
			logging.FieldPath, req.Path,
			logging.FieldProposals, len(proposals))
		proposals = proposals[:s.maxProposals]
	}

	logger.Debug("review complete",
		logging.FieldPath, req.Path,
		logging.FieldProposals, len(proposals))

	return &review.Review{
		Path:      req.Path,
		Language:  req.Language,
		Provider:  s.client.Name(),
		Model:     s.client.Model(),
		Summary:   parsed.Summary,
		Score:     review.Score(req.Source),
		Proposals: proposals,
		CreatedAt: time.Now().UTC(),
	}, nil
}
