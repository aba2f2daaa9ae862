/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kensa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomodakengo/kensa-sub001/datastore"
	"github.com/tomodakengo/kensa-sub001/datastore/mock"
	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
	"github.com/tomodakengo/kensa-sub001/validate"
)

func TestOpenFileBackend(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "locators")

	reg, report, err := Open(ctx, Options{Root: root, CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.Empty(t, report.Loaded)

	_, err = reg.SaveLocator(ctx, "Login", "submit", locatormodels.Attributes{AutomationID: "btnSubmit"}, nil)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "Login.xml"))
	require.NoError(t, err)

	reopened, report, err := Open(ctx, Options{Backend: BackendFile, Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"Login"}, report.Loaded)

	selectors, ok := reopened.ResolveSelectors("Login.submit")
	require.True(t, ok)
	assert.Equal(t, []locatormodels.Strategy{{Type: "automationId", Value: "btnSubmit", Priority: 1}}, selectors)
}

func TestOpenWithValidator(t *testing.T) {
	ctx := context.Background()
	reg, _, err := Open(ctx, Options{
		Root:      t.TempDir(),
		Validator: validate.NewHook(validate.DefaultRules()),
	})
	require.NoError(t, err)

	_, err = reg.SaveLocator(ctx, "Login", "submit",
		locatormodels.Attributes{AutomationID: "1 UNION SELECT password FROM users"}, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, _, err := Open(ctx, Options{Backend: "s3"})
	assert.ErrorContains(t, err, `backend "s3" not found`)

	_, _, err = Open(ctx, Options{Backend: BackendFile})
	assert.ErrorContains(t, err, "root directory is required")

	_, _, err = Open(ctx, Options{Backend: BackendDynamoDB, Region: "us-east-1"})
	assert.True(t, errors.IsValidationError(err), "got %v", err)
}

func TestRegisterBackend(t *testing.T) {
	ctx := context.Background()
	store := mock.New()
	name := fmt.Sprintf("memory-%s", t.Name())

	require.NoError(t, RegisterBackend(name, func(context.Context, Options) (datastore.PageStore, error) {
		return store, nil
	}))
	assert.Error(t, RegisterBackend(name, nil))
	assert.Contains(t, Backends(), name)
	assert.Contains(t, Backends(), BackendFile)
	assert.Contains(t, Backends(), BackendDynamoDB)

	reg, _, err := Open(ctx, Options{Backend: name})
	require.NoError(t, err)
	_, err = reg.SaveLocator(ctx, "Home", "logo", locatormodels.Attributes{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Count())

	store.WithListError(errors.NewIOError("list", name, fmt.Errorf("offline")))
	_, _, err = Open(ctx, Options{Backend: name})
	assert.True(t, errors.IsIOFailure(err))
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
