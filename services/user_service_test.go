package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users   map[int]*models.User
	byEmail map[string]*models.User
	deleted []int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int]*models.User{}, byEmail: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = len(r.users) + 1
	stored := *user
	r.users[user.ID] = &stored
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeArchiveRepo struct {
	repositories.ArchiveRepository
	archives []*models.Archive
}

func (r *fakeArchiveRepo) Create(_ context.Context, _ repositories.SQLExecutor, archive *models.Archive) error {
	archive.ID = len(r.archives) + 1
	r.archives = append(r.archives, archive)
	return nil
}

func TestUserDeleteArchivesSnapshotFirst(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{
		ID:        5,
		FirstName: "Mia",
		Email:     "mia@club.example",
		Role:      models.RoleEditor,
		IsActive:  true,
	})
	archiveRepo := &fakeArchiveRepo{}
	audit := &fakeAudit{}
	service := NewUserService(fakeTxRunner{}, userRepo, archiveRepo, audit)

	err := service.Delete(context.Background(), 5, intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, []int{5}, userRepo.deleted)
	require.Len(t, archiveRepo.archives, 1)

	archive := archiveRepo.archives[0]
	assert.Equal(t, models.ArchiveSourceUsers, archive.Source)
	assert.Equal(t, 5, archive.SourceID)
	require.NotNil(t, archive.DeletedBy)
	assert.Equal(t, 1, *archive.DeletedBy)

	// The snapshot is the full document as it stood before the delete.
	var snapshot models.User
	require.NoError(t, json.Unmarshal(archive.Snapshot, &snapshot))
	assert.Equal(t, "mia@club.example", snapshot.Email)
	assert.Equal(t, models.RoleEditor, snapshot.Role)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "user deleted", audit.entries[0].Title)
}

func TestUserDeleteUnknownID(t *testing.T) {
	service := NewUserService(fakeTxRunner{}, newFakeUserRepo(), &fakeArchiveRepo{}, &fakeAudit{})
	err := service.Delete(context.Background(), 404, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserGetByIdentifier(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{
		ID:           7,
		Email:        "coach@club.example",
		PasswordHash: "secret-hash",
		IsActive:     true,
	})
	service := NewUserService(fakeTxRunner{}, userRepo, &fakeArchiveRepo{}, &fakeAudit{})
	ctx := context.Background()

	byID, err := service.GetByIdentifier(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "coach@club.example", byID.Email)
	assert.Empty(t, byID.PasswordHash)

	byEmail, err := service.GetByIdentifier(ctx, "coach@club.example")
	require.NoError(t, err)
	assert.Equal(t, 7, byEmail.ID)

	_, err = service.GetByIdentifier(ctx, "some-slug")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdateValidatesRole(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{ID: 2, Email: "m@club.example", Role: models.RoleMember, IsActive: true})
	service := NewUserService(fakeTxRunner{}, userRepo, &fakeArchiveRepo{}, &fakeAudit{})

	bogus := models.UserRole("president")
	_, err := service.Update(context.Background(), 2, UpdateUserInput{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)

	coach := models.RoleCoach
	inactive := false
	updated, err := service.Update(context.Background(), 2, UpdateUserInput{Role: &coach, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoach, updated.Role)
	assert.False(t, updated.IsActive)
}
