// Package yamlfile serves candidate records from a single YAML document.
//
// The file is re-parsed whenever its modification time changes, so edits are
// visible on the next request without a restart.
package yamlfile

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

// Document is the on-disk layout.
type Document struct {
	Profile      *domain.Profile        `yaml:"profile"`
	Experiences  []domain.Experience    `yaml:"experiences"`
	Skills       []domain.Skill         `yaml:"skills"`
	Gaps         []domain.Gap           `yaml:"gaps"`
	Values       *domain.ValuesCulture  `yaml:"values"`
	FAQs         []domain.FAQ           `yaml:"faqs"`
	Instructions []domain.AIInstruction `yaml:"instructions"`
}

// Store implements domain.CandidateRepository and domain.CandidateLocator.
type Store struct {
	path string

	mu      sync.RWMutex
	doc     Document
	modTime time.Time
	loaded  bool
}

var (
	_ domain.CandidateRepository = (*Store)(nil)
	_ domain.CandidateLocator    = (*Store)(nil)
)

// Open parses path once so a broken file fails at startup.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := s.document(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) document() (Document, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("op=yamlfile.stat: %w", err)
	}
	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) {
		doc := s.doc
		s.mu.RUnlock()
		return doc, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && info.ModTime().Equal(s.modTime) {
		return s.doc, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("op=yamlfile.read: %w", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return Document{}, err
	}
	s.doc, s.modTime, s.loaded = doc, info.ModTime(), true
	return doc, nil
}

var vld = validator.New()

// Parse decodes and checks a candidate document.
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("op=yamlfile.parse: %w", err)
	}
	if err := check(doc); err != nil {
		return Document{}, fmt.Errorf("op=yamlfile.parse: %w", err)
	}
	return doc, nil
}

func check(doc Document) error {
	if doc.Profile != nil && doc.Profile.Name == "" {
		return errors.New("profile.name is required")
	}
	for i, e := range doc.Experiences {
		if e.IsCurrent && e.EndDate != nil {
			return fmt.Errorf("experiences[%d]: current position cannot have an end_date", i)
		}
	}
	for i, sk := range doc.Skills {
		if err := vld.Var(string(sk.Category), "oneof=strong moderate gap"); err != nil {
			return fmt.Errorf("skills[%d].category %q: must be strong, moderate or gap", i, sk.Category)
		}
		if sk.SelfRating != nil && vld.Var(*sk.SelfRating, "min=1,max=5") != nil {
			return fmt.Errorf("skills[%d].self_rating must be between 1 and 5", i)
		}
	}
	for i, g := range doc.Gaps {
		if err := vld.Var(string(g.GapType), "oneof=skill experience environment role_type"); err != nil {
			return fmt.Errorf("gaps[%d].gap_type %q is not supported", i, g.GapType)
		}
	}
	for i, in := range doc.Instructions {
		if err := vld.Var(string(in.InstructionType), "oneof=honesty tone boundaries"); err != nil {
			return fmt.Errorf("instructions[%d].instruction_type %q is not supported", i, in.InstructionType)
		}
	}
	return nil
}

// owns reports whether id addresses the stored candidate. A profile without
// an id answers to any candidate id.
func owns(doc Document, id domain.CandidateID) bool {
	if doc.Profile == nil || doc.Profile.ID == uuid.Nil {
		return true
	}
	return doc.Profile.ID == id
}

// read returns the document when ctx is live and id matches.
func (s *Store) read(ctx domain.Context, id domain.CandidateID) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}
	doc, err := s.document()
	if err != nil {
		return Document{}, false, err
	}
	return doc, owns(doc, id), nil
}

// DefaultCandidate returns the profile id.
func (s *Store) DefaultCandidate(ctx domain.Context) (domain.CandidateID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	doc, err := s.document()
	if err != nil {
		return uuid.Nil, err
	}
	if doc.Profile == nil {
		return uuid.Nil, fmt.Errorf("op=yamlfile.default: %w", domain.ErrNotFound)
	}
	return doc.Profile.ID, nil
}

func (s *Store) Profile(ctx domain.Context, id domain.CandidateID) (*domain.Profile, error) {
	doc, ok, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok || doc.Profile == nil {
		return nil, fmt.Errorf("op=yamlfile.profile: %w", domain.ErrNotFound)
	}
	p := *doc.Profile
	return &p, nil
}

func (s *Store) Values(ctx domain.Context, id domain.CandidateID) (*domain.ValuesCulture, error) {
	doc, ok, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok || doc.Values == nil {
		return nil, fmt.Errorf("op=yamlfile.values: %w", domain.ErrNotFound)
	}
	v := *doc.Values
	return &v, nil
}

func (s *Store) Experiences(ctx domain.Context, id domain.CandidateID) ([]domain.Experience, error) {
	doc, ok, err := s.read(ctx, id)
	return list(doc.Experiences, ok, err)
}

func (s *Store) Skills(ctx domain.Context, id domain.CandidateID) ([]domain.Skill, error) {
	doc, ok, err := s.read(ctx, id)
	return list(doc.Skills, ok, err)
}

func (s *Store) Gaps(ctx domain.Context, id domain.CandidateID) ([]domain.Gap, error) {
	doc, ok, err := s.read(ctx, id)
	return list(doc.Gaps, ok, err)
}

func (s *Store) FAQs(ctx domain.Context, id domain.CandidateID) ([]domain.FAQ, error) {
	doc, ok, err := s.read(ctx, id)
	return list(doc.FAQs, ok, err)
}

func (s *Store) Instructions(ctx domain.Context, id domain.CandidateID) ([]domain.AIInstruction, error) {
	doc, ok, err := s.read(ctx, id)
	return list(doc.Instructions, ok, err)
}

// list copies items so callers cannot mutate the cached document.
func list[T any](items []T, ok bool, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}
