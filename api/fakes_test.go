package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.Project
	clock    time.Time
	addErr   error
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[uuid.UUID]models.Project{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memProjectRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memProjectRepo) FindAll(_ context.Context) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return &p, nil
}

func (m *memProjectRepo) Add(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = *p
	return nil
}

func (m *memProjectRepo) Update(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return errs.NewNotFound("project")
	}
	p.UpdatedAt = m.tick()
	m.projects[p.ID] = *p
	return nil
}

func (m *memProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return errs.NewNotFound("project")
	}
	delete(m.projects, id)
	return nil
}

type memSkillRepo struct {
	mu     sync.Mutex
	skills map[uuid.UUID]models.Skill
}

func newMemSkillRepo() *memSkillRepo {
	return &memSkillRepo{skills: map[uuid.UUID]models.Skill{}}
}

func (m *memSkillRepo) FindAll(_ context.Context) ([]*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (m *memSkillRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[id]
	if !ok {
		return nil, errs.NewNotFound("skill")
	}
	return &s, nil
}

func (m *memSkillRepo) Add(_ context.Context, s *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.skills[s.ID] = *s
	return nil
}

func (m *memSkillRepo) Update(_ context.Context, s *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skills[s.ID]; !ok {
		return errs.NewNotFound("skill")
	}
	m.skills[s.ID] = *s
	return nil
}

func (m *memSkillRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skills[id]; !ok {
		return errs.NewNotFound("skill")
	}
	delete(m.skills, id)
	return nil
}

type memUserRepo struct {
	users []models.User
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, errs.NewNotFound("user")
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, errs.NewNotFound("user")
}

// fakeMediaStore records calls and hands out sequential public ids.
type fakeMediaStore struct {
	mu        sync.Mutex
	uploads   []services.MediaUpload
	deletes   []string
	uploadErr error
	failIDs   map[string]bool
}

func (f *fakeMediaStore) Upload(_ context.Context, up services.MediaUpload) (services.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return services.MediaAsset{}, f.uploadErr
	}
	if _, err := io.Copy(io.Discard, up.Body); err != nil {
		return services.MediaAsset{}, err
	}
	f.uploads = append(f.uploads, up)
	publicID := fmt.Sprintf("%s/upload-%d", up.Folder, len(f.uploads))
	return services.MediaAsset{URL: "https://cdn.test/" + publicID, PublicID: publicID}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, publicID string, _ services.MediaKind) services.DeleteResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, publicID)
	if f.failIDs[publicID] {
		return services.DeleteFailed("boom")
	}
	return services.Deleted()
}

func (f *fakeMediaStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.deletes...)
	sort.Strings(out)
	return out
}

func (f *fakeMediaStore) SignUpload(folder string, kind services.MediaKind) (services.UploadSignature, error) {
	return services.UploadSignature{
		Signature:    "sig-" + folder,
		Timestamp:    1700000000,
		Folder:       folder,
		ResourceType: string(kind),
		APIKey:       "key",
		CloudName:    "demo",
	}, nil
}

func (f *fakeMediaStore) PublicConfig() services.PublicConfig {
	return services.PublicConfig{CloudName: "demo"}
}

// plainMediaStore cannot sign uploads.
type plainMediaStore struct {
	inner *fakeMediaStore
}

func (p plainMediaStore) Upload(ctx context.Context, up services.MediaUpload) (services.MediaAsset, error) {
	return p.inner.Upload(ctx, up)
}

func (p plainMediaStore) Delete(ctx context.Context, publicID string, kind services.MediaKind) services.DeleteResult {
	return p.inner.Delete(ctx, publicID, kind)
}
