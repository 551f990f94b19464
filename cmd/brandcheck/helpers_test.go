package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/providers"
	"github.com/brandnamegen/brandcheck/internal/providers/mocks"
	"github.com/brandnamegen/brandcheck/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// testEnv runs commands in an empty temp directory with stubbed providers.
type testEnv struct {
	dir       string
	domain    *mocks.MockDomainChecker
	appfollow *mocks.MockTermSource
	play      *mocks.MockTermSource
	google    *mocks.MockTermSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(projectconfig.ConfigPathEnv, "")

	ctrl := gomock.NewController(t)
	env := &testEnv{
		dir:       dir,
		domain:    mocks.NewMockDomainChecker(ctrl),
		appfollow: mocks.NewMockTermSource(ctrl),
		play:      mocks.NewMockTermSource(ctrl),
		google:    mocks.NewMockTermSource(ctrl),
	}

	origSet, origCreds := newProviderSet, loadCredentials
	newProviderSet = func(*projectconfig.ProjectConfig, projectconfig.Credentials) providers.Set {
		return providers.Set{Domain: env.domain, AppFollow: env.appfollow, Play: env.play, Google: env.google}
	}
	loadCredentials = func() (projectconfig.Credentials, error) {
		return projectconfig.Credentials{}, nil
	}
	t.Cleanup(func() {
		newProviderSet, loadCredentials = origSet, origCreds
	})

	return env
}

// allClear makes every provider answer with no collisions.
func (e *testEnv) allClear() {
	e.domain.EXPECT().Check(gomock.Any(), gomock.Any()).Return(&models.DomainStatus{
		Domain:        "brandname.com",
		Available:     utils.Ptr(true),
		StatusCode:    utils.Ptr(404),
		Authoritative: true,
		Source:        models.DomainSourceRDAPVerisign,
	}, nil).AnyTimes()
	for _, src := range []*mocks.MockTermSource{e.appfollow, e.play, e.google} {
		src.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(&providers.TermResult{}, nil).AnyTimes()
	}
}

// allFail makes every provider fail.
func (e *testEnv) allFail() {
	e.domain.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil, providers.ErrTransient).AnyTimes()
	for _, src := range []*mocks.MockTermSource{e.appfollow, e.play, e.google} {
		src.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, providers.ErrMissingCredentials).AnyTimes()
	}
}

func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, projectconfig.ConfigFileName), []byte(content), 0o644))
}

// runCLI executes the root command with args and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func isGradeError(err error) bool {
	var gradeErr *GradeBelowMinimumError
	return errors.As(err, &gradeErr)
}
