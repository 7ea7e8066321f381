package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/query"
	"board-service/internal/auth"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
	"board-service/internal/infrastructure"
	"board-service/internal/infrastructure/db/postgres"
	"board-service/internal/infrastructure/email"
	"board-service/internal/infrastructure/messaging"
)

const signupSecret = "let-me-in"

type recordingNotifier struct {
	mu   sync.Mutex
	sent []email.CommentNotification
	err  error
}

func (r *recordingNotifier) NotifyComment(_ context.Context, n email.CommentNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) all() []email.CommentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]email.CommentNotification(nil), r.sent...)
}

type env struct {
	users      repositories.UserRepository
	registry   *auth.Registry
	hub        *messaging.Hub
	notifier   *recordingNotifier
	background *Background

	auth     interfaces.AuthService
	projects interfaces.ProjectService
	tickets  interfaces.TicketService
	comments interfaces.CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(postgres.DriverSQLite, "", log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	e := &env{
		users:    userRepo,
		registry: auth.NewRegistry(auth.NewMemoryStore(), userRepo),
		hub:      messaging.NewHub(log),
		notifier: &recordingNotifier{},
	}
	e.background = NewBackground(e.hub, time.Second, log)
	t.Cleanup(e.background.Wait)

	e.auth = NewAuthService(userRepo, e.registry, infrastructure.NewRateLimiter(time.Minute, 3), e.hub,
		AuthConfig{SignupToken: signupSecret, PasswordScheme: entities.PasswordPlain}, log)
	e.projects = NewProjectService(projectRepo, e.background)
	e.tickets = NewTicketService(ticketRepo, projectRepo, userRepo, e.background)
	e.comments = NewCommentService(commentRepo, ticketRepo, e.notifier, e.background)
	return e
}

func (e *env) signup(t *testing.T, email, name string) *entities.User {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), &command.SignupCommand{
		Email: email, Password: "pw-" + name, Name: name, SignupToken: signupSecret,
	})
	require.NoError(t, err)
	user, err := e.users.FindById(context.Background(), res.User.Id)
	require.NoError(t, err)
	return user
}

func (e *env) project(t *testing.T, owner *entities.User, name string) *common.ProjectResult {
	t.Helper()
	p, err := e.projects.CreateProject(context.Background(), owner, &command.CreateProjectCommand{Name: name})
	require.NoError(t, err)
	return p
}

func (e *env) ticket(t *testing.T, project *common.ProjectResult, assignee *entities.User) *common.TicketResult {
	t.Helper()
	cmd := &command.CreateTicketCommand{Name: "Fix bug", Description: "It crashes", ProjectId: project.Id.String()}
	if assignee != nil {
		cmd.AssigneeId = assignee.Id.String()
	}
	ticket, err := e.tickets.CreateTicket(context.Background(), cmd)
	require.NoError(t, err)
	return ticket
}

func assertKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	if msg != "" {
		assert.Equal(t, msg, err.Error())
	}
}

func TestSignup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Signup(ctx, &command.SignupCommand{
		Email: "a@x.com", Password: "p", Name: "A", SignupToken: signupSecret,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)

	resolved, err := e.registry.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.Id, resolved.Id)

	tests := []struct {
		name string
		cmd  command.SignupCommand
		kind error
		msg  string
	}{
		{"missing field", command.SignupCommand{Email: "b@x.com", Password: "p", Name: "B"}, domain.ErrValidation,
			"Email, password, name, and signup_token are required"},
		{"duplicate email before secret check", command.SignupCommand{Email: "a@x.com", Password: "p", Name: "A2", SignupToken: "wrong"},
			domain.ErrConflict, "User with this email already exists"},
		{"wrong secret", command.SignupCommand{Email: "c@x.com", Password: "p", Name: "C", SignupToken: "wrong"},
			domain.ErrForbidden, "Invalid signup token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.auth.Signup(ctx, &tt.cmd)
			assertKind(t, err, tt.kind, tt.msg)
		})
	}
}

// staleEmailCheck answers FindByEmail as if a concurrent signup had not
// committed yet.
type staleEmailCheck struct {
	repositories.UserRepository
}

func (staleEmailCheck) FindByEmail(context.Context, string) (*entities.User, error) {
	return nil, nil
}

func TestSignup_LosingConcurrentInsertIsConflict(t *testing.T) {
	e := newEnv(t)
	e.signup(t, "race@x.com", "First")

	svc := NewAuthService(staleEmailCheck{e.users}, e.registry, nil, nil,
		AuthConfig{SignupToken: signupSecret, PasswordScheme: entities.PasswordPlain}, slog.Default())
	_, err := svc.Signup(context.Background(), &command.SignupCommand{
		Email: "race@x.com", Password: "p", Name: "Second", SignupToken: signupSecret,
	})
	assertKind(t, err, domain.ErrConflict, "User with this email already exists")
}

func TestSignup_BcryptScheme(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.users, e.registry, nil, nil,
		AuthConfig{SignupToken: signupSecret, PasswordScheme: entities.PasswordBcrypt}, slog.Default())

	res, err := svc.Signup(context.Background(), &command.SignupCommand{
		Email: "h@x.com", Password: "hunter2", Name: "H", SignupToken: signupSecret,
	})
	require.NoError(t, err)

	stored, err := e.users.FindById(context.Background(), res.User.Id)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.Password)

	_, err = svc.Login(context.Background(), &command.LoginCommand{Email: "h@x.com", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "bob@x.com", "Bob")

	first, err := e.auth.Login(ctx, &command.LoginCommand{Email: "bob@x.com", Password: "pw-Bob"})
	require.NoError(t, err)
	second, err := e.auth.Login(ctx, &command.LoginCommand{Email: "bob@x.com", Password: "pw-Bob"})
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token, "login is idempotent per user")

	_, err = e.auth.Login(ctx, &command.LoginCommand{Email: "bob@x.com"})
	assertKind(t, err, domain.ErrValidation, "Email and password are required")

	_, err = e.auth.Login(ctx, &command.LoginCommand{Email: "nobody@x.com", Password: "x"})
	assertKind(t, err, domain.ErrUnauthenticated, "Invalid credentials")
}

func TestLogin_RateLimited(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "eve@x.com", "Eve")

	for i := 0; i < 3; i++ {
		_, err := e.auth.Login(ctx, &command.LoginCommand{Email: "eve@x.com", Password: "guess"})
		assertKind(t, err, domain.ErrUnauthenticated, "")
	}
	_, err := e.auth.Login(ctx, &command.LoginCommand{Email: "EVE@x.com", Password: "pw-Eve"})
	assertKind(t, err, domain.ErrRateLimited, "Too many login attempts, please try again later")

	var limited *domain.Error
	require.ErrorAs(t, err, &limited)
	assert.Positive(t, limited.RetryAfter)
	assert.LessOrEqual(t, limited.RetryAfter, time.Minute)
}

func TestLogoutAndDeleteAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	token, err := e.registry.Issue(ctx, alice)
	require.NoError(t, err)

	stream := e.hub.Subscribe(alice.Id, token, nil)

	msg, err := e.auth.Logout(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Successfully logged out", msg.Message)
	_, err = e.registry.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	_, open := <-stream.C
	assert.False(t, open, "event stream closed on logout")

	token, err = e.registry.Issue(ctx, alice)
	require.NoError(t, err)
	sub := e.hub.Subscribe(alice.Id, token, nil)

	_, err = e.auth.DeleteAccount(ctx, alice)
	require.NoError(t, err)

	_, err = e.registry.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	_, open = <-sub.C
	assert.False(t, open, "event stream closed with the account")

	gone, err := e.users.FindById(ctx, alice.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSearchAssignees(t *testing.T) {
	e := newEnv(t)
	e.signup(t, "zed@x.com", "Zed Smith")
	e.signup(t, "amy@x.com", "Amy Smith")
	e.signup(t, "carl@y.com", "Carl")

	got, err := e.auth.SearchAssignees(context.Background(), &query.AssigneeSearchQuery{Q: "SMITH"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Amy Smith", got[0].Name)
	assert.Equal(t, "Zed Smith", got[1].Name)
}

func TestProjects_Ownership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	bob := e.signup(t, "bob@x.com", "Bob")

	p := e.project(t, alice, "  Roadmap ")
	assert.Equal(t, "Roadmap", p.Name)
	assert.Equal(t, alice.Id, p.CreatedBy.Id)

	_, err := e.projects.CreateProject(ctx, alice, &command.CreateProjectCommand{Name: " "})
	assertKind(t, err, domain.ErrValidation, "name is required")

	renamed := "Plan"
	_, err = e.projects.UpdateProject(ctx, bob, p.Id, &command.UpdateProjectCommand{Name: &renamed})
	assertKind(t, err, domain.ErrForbidden, "Only the project creator can update this project")
	_, err = e.projects.DeleteProject(ctx, bob, p.Id)
	assertKind(t, err, domain.ErrForbidden, "Only the project creator can delete this project")

	updated, err := e.projects.UpdateProject(ctx, alice, p.Id, &command.UpdateProjectCommand{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Plan", updated.Name)

	long := strings.Repeat("x", 256)
	_, err = e.projects.CreateProject(ctx, alice, &command.CreateProjectCommand{Name: long})
	assertKind(t, err, domain.ErrValidation, "name must be at most 255 characters")
	_, err = e.projects.UpdateProject(ctx, alice, p.Id, &command.UpdateProjectCommand{Name: &long})
	assertKind(t, err, domain.ErrValidation, "name must be at most 255 characters")

	empty := ""
	unchanged, err := e.projects.UpdateProject(ctx, alice, p.Id, &command.UpdateProjectCommand{Name: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Plan", unchanged.Name)

	msg, err := e.projects.DeleteProject(ctx, alice, p.Id)
	require.NoError(t, err)
	assert.Equal(t, `Project "Plan" deleted successfully`, msg.Message)

	_, err = e.projects.GetProject(ctx, p.Id)
	assertKind(t, err, domain.ErrNotFound, "Project not found")
}

func TestTickets_CreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	p := e.project(t, alice, "Board")

	tests := []struct {
		name string
		cmd  command.CreateTicketCommand
		kind error
		msg  string
	}{
		{"no project", command.CreateTicketCommand{Name: "n", Description: "d"}, domain.ErrValidation, "project_id is required"},
		{"malformed project", command.CreateTicketCommand{Name: "n", Description: "d", ProjectId: "nope"}, domain.ErrNotFound, "Project not found"},
		{"unknown project", command.CreateTicketCommand{Name: "n", Description: "d", ProjectId: uuid.NewString()}, domain.ErrNotFound, "Project not found"},
		{"no name", command.CreateTicketCommand{Description: "d", ProjectId: p.Id.String()}, domain.ErrValidation, "name is required"},
		{"no description", command.CreateTicketCommand{Name: "n", ProjectId: p.Id.String()}, domain.ErrValidation, "description is required"},
		{"bad status", command.CreateTicketCommand{Name: "n", Description: "d", Status: "BLOCKED", ProjectId: p.Id.String()}, domain.ErrValidation, ""},
		{"unknown assignee", command.CreateTicketCommand{Name: "n", Description: "d", ProjectId: p.Id.String(), AssigneeId: uuid.NewString()},
			domain.ErrValidation, "Assignee not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.tickets.CreateTicket(ctx, &tt.cmd)
			assertKind(t, err, tt.kind, tt.msg)
		})
	}
}

func TestTickets_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	bob := e.signup(t, "bob@x.com", "Bob")
	board := e.project(t, alice, "Board")
	other := e.project(t, bob, "Other")

	empty, err := e.tickets.ListTickets(ctx, &query.TicketListQuery{})
	require.NoError(t, err)
	for _, s := range entities.Statuses {
		assert.NotNil(t, empty[s])
		assert.Empty(t, empty[s])
	}

	ticket := e.ticket(t, board, nil)
	assert.Equal(t, entities.StatusTodo, ticket.Status)
	assert.Nil(t, ticket.Assignee)
	assert.Equal(t, board.Id, ticket.Project.Id)

	done := "DONE"
	assignee := bob.Id.String()
	moveTo := other.Id.String()
	updated, err := e.tickets.UpdateTicket(ctx, ticket.Id, &command.UpdateTicketCommand{
		Status: &done, AssigneeId: &assignee, ProjectId: &moveTo,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusDone, updated.Status)
	assert.Equal(t, bob.Id, updated.Assignee.Id)
	assert.Equal(t, "Other", updated.Project.Name)

	blank := ""
	kept, err := e.tickets.UpdateTicket(ctx, ticket.Id, &command.UpdateTicketCommand{AssigneeId: &blank})
	require.NoError(t, err)
	require.NotNil(t, kept.Assignee, "empty assignee_id leaves the assignment alone")

	_, err = e.tickets.UpdateTicket(ctx, ticket.Id, &command.UpdateTicketCommand{Name: &blank})
	assertKind(t, err, domain.ErrValidation, "name is required")
	bogus := uuid.NewString()
	_, err = e.tickets.UpdateTicket(ctx, ticket.Id, &command.UpdateTicketCommand{AssigneeId: &bogus})
	assertKind(t, err, domain.ErrValidation, "Assignee not found")
	_, err = e.tickets.UpdateTicket(ctx, ticket.Id, &command.UpdateTicketCommand{ProjectId: &bogus})
	assertKind(t, err, domain.ErrNotFound, "Project not found")
	_, err = e.tickets.UpdateTicket(ctx, 999, &command.UpdateTicketCommand{})
	assertKind(t, err, domain.ErrNotFound, "Ticket not found")

	e.ticket(t, board, nil)
	grouped, err := e.tickets.ListTickets(ctx, &query.TicketListQuery{})
	require.NoError(t, err)
	assert.Len(t, grouped[entities.StatusDone], 1)
	assert.Len(t, grouped[entities.StatusTodo], 1)

	onlyBoard, err := e.tickets.ListTickets(ctx, &query.TicketListQuery{ProjectId: board.Id.String()})
	require.NoError(t, err)
	assert.Len(t, onlyBoard[entities.StatusTodo], 1)
	assert.Empty(t, onlyBoard[entities.StatusDone])

	msg, err := e.tickets.DeleteTicket(ctx, ticket.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ticket deleted successfully", msg.Message)
	_, err = e.tickets.DeleteTicket(ctx, ticket.Id)
	assertKind(t, err, domain.ErrNotFound, "Ticket not found")
}

func TestComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	bob := e.signup(t, "bob@x.com", "Bob")
	ticket := e.ticket(t, e.project(t, alice, "Board"), bob)

	_, err := e.comments.CreateComment(ctx, alice, ticket.Id, &command.CreateCommentCommand{Content: "   "})
	assertKind(t, err, domain.ErrValidation, "content is required and cannot be empty")
	_, err = e.comments.CreateComment(ctx, alice, 404, &command.CreateCommentCommand{Content: "hi"})
	assertKind(t, err, domain.ErrNotFound, "Ticket not found")

	long := "one two three four five six seven eight nine ten eleven"
	first, err := e.comments.CreateComment(ctx, alice, ticket.Id, &command.CreateCommentCommand{Content: "  " + long + " "})
	require.NoError(t, err)
	assert.Equal(t, long, first.Content)
	assert.Equal(t, ticket.Id, first.Ticket)
	assert.Equal(t, alice.Id, first.Commentor.Id)

	e.background.Wait()
	sent := e.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "bob@x.com", sent[0].To)
	assert.Equal(t, "Alice", sent[0].CommentorName)
	assert.Equal(t, "Fix bug", sent[0].TicketName)
	assert.Equal(t, "one two three four five six seven eight nine ten...", sent[0].Preview)

	second, err := e.comments.CreateComment(ctx, bob, ticket.Id, &command.CreateCommentCommand{Content: "ack"})
	require.NoError(t, err)
	e.background.Wait()
	assert.Len(t, e.notifier.all(), 2)

	listed, err := e.comments.ListComments(ctx, ticket.Id)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.Id, listed[0].Id)
	assert.Equal(t, second.Id, listed[1].Id)

	edit := "edited"
	_, err = e.comments.UpdateComment(ctx, bob, first.Id, &command.UpdateCommentCommand{Content: &edit})
	assertKind(t, err, domain.ErrForbidden, "Only the commentor can update this comment")
	whitespace := "  "
	_, err = e.comments.UpdateComment(ctx, alice, first.Id, &command.UpdateCommentCommand{Content: &whitespace})
	assertKind(t, err, domain.ErrValidation, "content cannot be empty")

	updated, err := e.comments.UpdateComment(ctx, alice, first.Id, &command.UpdateCommentCommand{Content: &edit})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = e.comments.DeleteComment(ctx, bob, first.Id)
	assertKind(t, err, domain.ErrForbidden, "Only the commentor can delete this comment")
	msg, err := e.comments.DeleteComment(ctx, alice, first.Id)
	require.NoError(t, err)
	assert.Equal(t, "Comment deleted successfully", msg.Message)
	_, err = e.comments.DeleteComment(ctx, alice, first.Id)
	assertKind(t, err, domain.ErrNotFound, "Comment not found")
}

func TestComments_NotificationFailureAndUnassigned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signup(t, "alice@x.com", "Alice")
	board := e.project(t, alice, "Board")

	unassigned := e.ticket(t, board, nil)
	_, err := e.comments.CreateComment(ctx, alice, unassigned.Id, &command.CreateCommentCommand{Content: "hi"})
	require.NoError(t, err)
	e.background.Wait()
	assert.Empty(t, e.notifier.all())

	e.notifier.err = errors.New("smtp down")
	assigned := e.ticket(t, board, alice)
	created, err := e.comments.CreateComment(ctx, alice, assigned.Id, &command.CreateCommentCommand{Content: "hi"})
	require.NoError(t, err)
	assert.NotNil(t, created)
	e.background.Wait()
	assert.Len(t, e.notifier.all(), 1)
}

func TestEventsReachProjectSubscribers(t *testing.T) {
	e := newEnv(t)
	alice := e.signup(t, "alice@x.com", "Alice")
	board := e.project(t, alice, "Board")
	e.background.Wait()

	sub := e.hub.Subscribe(alice.Id, "", &board.Id)
	defer e.hub.Unsubscribe(sub)

	ticket := e.ticket(t, board, nil)
	e.background.Wait()

	select {
	case event := <-sub.C:
		assert.Equal(t, messaging.TicketCreated, event.Type)
		assert.Equal(t, board.Id, event.ProjectId)
		payload, ok := event.Payload.(*common.TicketResult)
		require.True(t, ok)
		assert.Equal(t, ticket.Id, payload.Id)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
