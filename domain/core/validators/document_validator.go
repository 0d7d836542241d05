package validators

import (
	"fmt"
	"strings"

	"roadmap-backend/domain/config"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/pkg/errors"
)

// DocumentValidator validates roadmap content documents against
// configured structural limits
type DocumentValidator struct {
	maxBytes  int
	maxCells  int
	maxTopics int
}

// NewDocumentValidator creates a validator from domain configuration
func NewDocumentValidator(cfg *config.DomainConfig) *DocumentValidator {
	return &DocumentValidator{
		maxBytes:  cfg.MaxDocumentBytes,
		maxCells:  cfg.MaxCellsPerDocument,
		maxTopics: cfg.MaxTopicsPerDocument,
	}
}

// ValidateDocument decodes and validates serialized content, returning
// the typed document on success
func (v *DocumentValidator) ValidateDocument(data []byte) (*valueobjects.GraphDocument, error) {
	if len(data) > v.maxBytes {
		return nil, errors.NewMalformedDocumentError(
			fmt.Sprintf("content exceeds %d bytes", v.maxBytes))
	}

	doc, err := valueobjects.DecodeGraphDocument(data)
	if err != nil {
		return nil, err
	}

	if doc.CellCount() > v.maxCells {
		return nil, errors.NewMalformedDocumentError(
			fmt.Sprintf("content has %d cells, limit is %d", doc.CellCount(), v.maxCells))
	}
	if doc.TopicCount() > v.maxTopics {
		return nil, errors.NewMalformedDocumentError(
			fmt.Sprintf("content has %d topics, limit is %d", doc.TopicCount(), v.maxTopics))
	}

	return doc, nil
}

// RoadmapValidator validates roadmap-level domain rules
type RoadmapValidator struct {
	minNameLength int
	maxNameLength int
}

// NewRoadmapValidator creates a validator from domain configuration
func NewRoadmapValidator(cfg *config.DomainConfig) *RoadmapValidator {
	return &RoadmapValidator{
		minNameLength: cfg.MinNameLength,
		maxNameLength: cfg.MaxNameLength,
	}
}

// ValidateName validates a roadmap display name
func (v *RoadmapValidator) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < v.minNameLength {
		return errors.NewValidationError("roadmap name cannot be empty")
	}
	if len(name) > v.maxNameLength {
		return errors.NewValidationError(
			fmt.Sprintf("roadmap name exceeds %d characters", v.maxNameLength))
	}
	return nil
}
