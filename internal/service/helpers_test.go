package service

import (
	"errors"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

// failWrites 让 match 命中的创建和更新返回 errDiskFull
func failWrites(t *testing.T, db *gorm.DB, match func(dest interface{}) bool) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if match(tx.Statement.Dest) {
			tx.AddError(errDiskFull)
		}
	}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_create", fail))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update", fail))
}

type pushedMessage struct {
	UserIDs []uint
	Msg     WSMessage
}

// recordingDispatcher 记录推送内容，代替真实的 websocket hub
type recordingDispatcher struct {
	mu       sync.Mutex
	messages []pushedMessage
}

func (d *recordingDispatcher) PushToUsers(userIDs []uint, msg WSMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, pushedMessage{UserIDs: userIDs, Msg: msg})
}

func (d *recordingDispatcher) ofType(typ string) []pushedMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []pushedMessage
	for _, m := range d.messages {
		if m.Msg.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

type repos struct {
	path         *repository.LearningPathRepository
	group        *repository.GroupRepository
	progress     *repository.ProgressRepository
	user         *repository.UserRepository
	content      *repository.ContentRepository
	assignment   *repository.ContentAssignmentRepository
	notification *repository.NotificationRepository
}

func newRepos(db *gorm.DB) *repos {
	return &repos{
		path:         repository.NewLearningPathRepository(db),
		group:        repository.NewGroupRepository(db),
		progress:     repository.NewProgressRepository(db),
		user:         repository.NewUserRepository(db),
		content:      repository.NewContentRepository(db),
		assignment:   repository.NewContentAssignmentRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

type progressEnv struct {
	db     *gorm.DB
	f      *testutil.Fixture
	repos  *repos
	events *recordingDispatcher
	svc    *ProgressService
}

func newProgressEnv(t *testing.T) *progressEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := newRepos(db)
	events := &recordingDispatcher{}
	resolver := NewOwnershipResolver(r.path, r.group, r.assignment)

	svc := NewProgressService(resolver, r.path, r.group, r.progress, r.user, events)
	svc.Now = func() time.Time { return testNow }

	return &progressEnv{
		db:     db,
		f:      testutil.NewFixture(t, db),
		repos:  r,
		events: events,
		svc:    svc,
	}
}

func (e *progressEnv) teacher() Actor {
	return Actor{ID: e.f.Teacher.ID, Role: model.Teacher}
}

func studentActor(u model.User) Actor {
	return Actor{ID: u.ID, Role: model.Student}
}
