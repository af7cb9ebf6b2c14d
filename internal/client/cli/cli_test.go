package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/internal/client/communities"
	"github.com/iudanet/communitas/internal/client/session"
	"github.com/iudanet/communitas/pkg/api"
)

// fakeIO проигрывает заранее заданный сценарий ввода и записывает вывод
type fakeIO struct {
	out       strings.Builder
	inputs    []string
	passwords []string
	confirms  []bool
}

func (f *fakeIO) Println(a ...any) {
	fmt.Fprintln(&f.out, a...)
}

func (f *fakeIO) Printf(format string, a ...any) {
	fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", fmt.Errorf("no scripted input for prompt %q", prompt)
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", fmt.Errorf("no scripted password for prompt %q", prompt)
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

func (f *fakeIO) Confirm(prompt string) (bool, error) {
	if len(f.confirms) == 0 {
		return false, fmt.Errorf("no scripted confirmation for prompt %q", prompt)
	}
	v := f.confirms[0]
	f.confirms = f.confirms[1:]
	return v, nil
}

// fakeCliAPI реализует API через подменяемые функции
type fakeCliAPI struct {
	registerFn func(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	loginFn    func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	refreshFn  func(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error)
	newsFn     func(ctx context.Context, page, limit int) (*api.NewsListResponse, error)
	token      string
}

func (f *fakeCliAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeCliAPI) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeCliAPI) Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
	return f.refreshFn(ctx, req)
}

func (f *fakeCliAPI) ListNews(ctx context.Context, page, limit int) (*api.NewsListResponse, error) {
	return f.newsFn(ctx, page, limit)
}

func (f *fakeCliAPI) SetToken(token string) {
	f.token = token
}

// fakeCommunitiesAPI реализует communities.CommunitiesAPI
type fakeCommunitiesAPI struct {
	listFn    func(ctx context.Context) (*api.CommunityListResponse, error)
	getFn     func(ctx context.Context, slug string) (*api.Community, error)
	postsFn   func(ctx context.Context, slug string, page, limit int) (*api.PostListResponse, error)
	joinFn    func(ctx context.Context, communityID string) (*api.JoinResponse, error)
	requestFn func(ctx context.Context, communityID string) (*api.RequestAccessResponse, error)
}

func (f *fakeCommunitiesAPI) ListCommunities(ctx context.Context) (*api.CommunityListResponse, error) {
	return f.listFn(ctx)
}

func (f *fakeCommunitiesAPI) GetCommunity(ctx context.Context, slug string) (*api.Community, error) {
	return f.getFn(ctx, slug)
}

func (f *fakeCommunitiesAPI) ListPosts(ctx context.Context, slug string, page, limit int) (*api.PostListResponse, error) {
	return f.postsFn(ctx, slug, page, limit)
}

func (f *fakeCommunitiesAPI) JoinCommunity(ctx context.Context, communityID string) (*api.JoinResponse, error) {
	return f.joinFn(ctx, communityID)
}

func (f *fakeCommunitiesAPI) RequestAccess(ctx context.Context, communityID string) (*api.RequestAccessResponse, error) {
	return f.requestFn(ctx, communityID)
}

// memSessions хранит сессию в памяти теста
type memSessions struct {
	sess *session.Session
}

func (m *memSessions) Save(ctx context.Context, s *session.Session) error {
	saved := *s
	m.sess = &saved
	return nil
}

func (m *memSessions) Get(ctx context.Context) (*session.Session, error) {
	if m.sess == nil {
		return nil, session.ErrSessionNotFound
	}
	saved := *m.sess
	return &saved, nil
}

func (m *memSessions) Delete(ctx context.Context) error {
	if m.sess == nil {
		return session.ErrSessionNotFound
	}
	m.sess = nil
	return nil
}

func validSession() *session.Session {
	return &session.Session{
		Username:     "alice",
		ServerURL:    "http://localhost:8080",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(10 * time.Minute).Unix(),
	}
}

func newTestCli(commAPI *fakeCommunitiesAPI) (*Cli, *fakeIO, *fakeCliAPI, *memSessions) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ioFake := &fakeIO{}
	apiFake := &fakeCliAPI{}
	sessions := &memSessions{}
	store := cache.NewStore()
	svc := communities.NewService(commAPI, store, logger, cache.Options{
		RetryCount:    1,
		RetryInterval: time.Millisecond,
	})
	c := New(ioFake, apiFake, sessions, svc, store, logger, "http://localhost:8080")
	return c, ioFake, apiFake, sessions
}

func TestRunRegister(t *testing.T) {
	c, ioFake, apiFake, _ := newTestCli(&fakeCommunitiesAPI{})
	ioFake.inputs = []string{"alice"}
	ioFake.passwords = []string{"password123", "password123"}

	apiFake.registerFn = func(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "password123", req.Password)
		return &api.RegisterResponse{UserID: "u1", Message: "created"}, nil
	}

	err := c.RunRegister(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ioFake.out.String(), "Registration successful")
	assert.Contains(t, ioFake.out.String(), "u1")
}

func TestRunRegister_PasswordMismatch(t *testing.T) {
	c, ioFake, apiFake, _ := newTestCli(&fakeCommunitiesAPI{})
	ioFake.inputs = []string{"alice"}
	ioFake.passwords = []string{"password123", "different123"}

	apiFake.registerFn = func(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
		t.Fatal("register must not be called on password mismatch")
		return nil, nil
	}

	err := c.RunRegister(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestRunLogin_SavesSession(t *testing.T) {
	c, ioFake, apiFake, sessions := newTestCli(&fakeCommunitiesAPI{})
	ioFake.inputs = []string{"alice"}
	ioFake.passwords = []string{"password123"}

	apiFake.loginFn = func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
		return &api.TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    900,
		}, nil
	}

	err := c.RunLogin(context.Background())
	require.NoError(t, err)

	require.NotNil(t, sessions.sess)
	assert.Equal(t, "alice", sessions.sess.Username)
	assert.Equal(t, "access-1", sessions.sess.AccessToken)
	assert.Equal(t, "refresh-1", sessions.sess.RefreshToken)
	assert.False(t, sessions.sess.Expired())
	assert.Equal(t, "access-1", apiFake.token)
	assert.Contains(t, ioFake.out.String(), "Login successful")
}

func TestRunLogout(t *testing.T) {
	c, ioFake, _, sessions := newTestCli(&fakeCommunitiesAPI{})
	sessions.sess = validSession()

	require.NoError(t, c.RunLogout(context.Background()))
	assert.Nil(t, sessions.sess)
	assert.Contains(t, ioFake.out.String(), "Logged out")

	// Повторный logout без сессии не ошибка
	require.NoError(t, c.RunLogout(context.Background()))
	assert.Contains(t, ioFake.out.String(), "Not logged in")
}

func TestRunStatus(t *testing.T) {
	c, ioFake, _, sessions := newTestCli(&fakeCommunitiesAPI{})

	require.NoError(t, c.RunStatus(context.Background()))
	assert.Contains(t, ioFake.out.String(), "Not authenticated")

	ioFake.out.Reset()
	sessions.sess = validSession()

	require.NoError(t, c.RunStatus(context.Background()))
	assert.Contains(t, ioFake.out.String(), "Authenticated")
	assert.Contains(t, ioFake.out.String(), "alice")
}

func TestRequireSession_RefreshesExpiredToken(t *testing.T) {
	c, _, apiFake, sessions := newTestCli(&fakeCommunitiesAPI{})
	sess := validSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	sessions.sess = sess

	apiFake.refreshFn = func(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
		assert.Equal(t, "refresh", req.RefreshToken)
		return &api.TokenResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
			ExpiresIn:    900,
		}, nil
	}

	got, err := c.requireSession(context.Background())
	require.NoError(t, err)

	// Ротация: новая пара токенов сохранена, старый refresh забыт
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Equal(t, "refresh-2", sessions.sess.RefreshToken)
	assert.False(t, sessions.sess.Expired())
	assert.Equal(t, "access-2", apiFake.token)
}

func TestRequireSession_NotLoggedIn(t *testing.T) {
	c, _, _, _ := newTestCli(&fakeCommunitiesAPI{})

	_, err := c.requireSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestRunNews(t *testing.T) {
	c, ioFake, apiFake, _ := newTestCli(&fakeCommunitiesAPI{})
	apiFake.newsFn = func(ctx context.Context, page, limit int) (*api.NewsListResponse, error) {
		return &api.NewsListResponse{
			News: []api.NewsItem{
				{Title: "Go 1.23 released", Summary: "Faster maps", PublishedAt: time.Now()},
			},
			Total: 1,
			Page:  page,
			Limit: limit,
		}, nil
	}

	require.NoError(t, c.RunNews(context.Background()))
	assert.Contains(t, ioFake.out.String(), "Go 1.23 released")
	assert.Contains(t, ioFake.out.String(), "Faster maps")
}
