package service

import (
	"context"
	"testing"

	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/testsupport"
)

func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := testsupport.MustOpenDB(t)
	return NewServices(repos, Options{}, testsupport.Logger(t)), repos
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

var ctx = context.Background()
