package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/author/model"
	"quilltips-backend/internal/domains/author/repository"
	"quilltips-backend/pkg/cache"
	"quilltips-backend/pkg/logger"
)

const (
	draftKeyPrefix = "draft:author:"
	// DraftTTL bounds abandoned drafts; every mutation refreshes it.
	DraftTTL = 24 * time.Hour
)

// Operation is a single edit applied to an open draft.
type Operation struct {
	Op    string  `json:"op"`
	Name  *string `json:"name,omitempty"`
	Bio   *string `json:"bio,omitempty"`
	URL   string  `json:"url,omitempty"`
	Label string  `json:"label,omitempty"`
	Index int     `json:"index"`
	Field string  `json:"field,omitempty"`
	Value string  `json:"value,omitempty"`
}

const (
	OpSetName    = "set_name"
	OpSetBio     = "set_bio"
	OpAddLink    = "add_link"
	OpRemoveLink = "remove_link"
	OpUpdateLink = "update_link"
)

type Service interface {
	// Open returns the author's draft, creating one from the stored
	// profile if none exists.
	Open(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error)
	Get(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error)
	Apply(ctx context.Context, accountID uuid.UUID, op Operation) (*ProfileDraft, error)
	// Save writes the working copy through to the profile and promotes
	// it to the new snapshot.
	Save(ctx context.Context, accountID uuid.UUID) (*model.Profile, error)
	Discard(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error)
	// Close tears the draft down. With unsaved changes and force=false it
	// refuses with ErrUnsavedChanges so the caller can stay on the page.
	Close(ctx context.Context, accountID uuid.UUID, force bool) error
	// DiscardIfExists drops any draft without the unsaved-changes check.
	// Used on sign-out, where the session is gone anyway.
	DiscardIfExists(ctx context.Context, accountID uuid.UUID)
}

type service struct {
	authors repository.Repository
	cache   cache.Cache
}

func NewService(authors repository.Repository, cacheClient cache.Cache) Service {
	return &service{authors: authors, cache: cacheClient}
}

func draftKey(accountID uuid.UUID) string {
	return draftKeyPrefix + accountID.String()
}

func (s *service) Open(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error) {
	existing, err := s.Get(ctx, accountID)
	if err == nil {
		return existing, nil
	}
	if err != ErrNoDraft {
		return nil, err
	}

	profile, err := s.authors.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	d := New(profile)
	if err := s.persist(ctx, accountID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error) {
	var d ProfileDraft
	found, err := s.cache.Get(ctx, draftKey(accountID), &d)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if !found {
		return nil, ErrNoDraft
	}
	return &d, nil
}

func (s *service) Apply(ctx context.Context, accountID uuid.UUID, op Operation) (*ProfileDraft, error) {
	d, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch op.Op {
	case OpSetName:
		if op.Name != nil {
			d.SetName(*op.Name)
		}
	case OpSetBio:
		if op.Bio != nil {
			d.SetBio(*op.Bio)
		}
	case OpAddLink:
		d.AddSocialLink(op.URL, op.Label)
	case OpRemoveLink:
		d.RemoveSocialLink(op.Index)
	case OpUpdateLink:
		d.UpdateSocialLink(op.Index, op.Field, op.Value)
	default:
		return nil, ErrUnknownOp
	}

	if err := s.persist(ctx, accountID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Save(ctx context.Context, accountID uuid.UUID) (*model.Profile, error) {
	d, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	w := d.Working()
	profile, err := s.authors.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile.Name = w.Name
	if w.Bio == "" {
		profile.Bio = nil
	} else {
		bio := w.Bio
		profile.Bio = &bio
	}
	profile.SocialLinks = w.SocialLinks

	if err := s.authors.Update(ctx, profile, d.Version()); err != nil {
		return nil, err
	}

	d.MarkSaved()
	d.version = profile.Version
	if err := s.persist(ctx, accountID, d); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *service) Discard(ctx context.Context, accountID uuid.UUID) (*ProfileDraft, error) {
	d, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	d.Discard()
	if err := s.persist(ctx, accountID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Close(ctx context.Context, accountID uuid.UUID, force bool) error {
	d, err := s.Get(ctx, accountID)
	if err != nil {
		if err == ErrNoDraft {
			return nil
		}
		return err
	}
	if d.HasChanges() && !force {
		return ErrUnsavedChanges
	}
	if err := s.cache.Delete(ctx, draftKey(accountID)); err != nil {
		return fmt.Errorf("failed to close draft: %w", err)
	}
	return nil
}

func (s *service) DiscardIfExists(ctx context.Context, accountID uuid.UUID) {
	if err := s.cache.Delete(ctx, draftKey(accountID)); err != nil {
		logger.Warn("failed to drop draft on sign-out", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
	}
}

func (s *service) persist(ctx context.Context, accountID uuid.UUID, d *ProfileDraft) error {
	if err := s.cache.Set(ctx, draftKey(accountID), d, DraftTTL); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}
