package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{URL: "https://live.example.org/v2/", SandboxURL: "https://sandbox.example.org/v2/"}

func TestLoadUnsetJournal(t *testing.T) {
	provider := NewProvider(newMemoryStore(), testDefaults)

	loaded, err := provider.Load(context.Background(), "oas")
	require.NoError(t, err)
	assert.Equal(t, Settings{URL: testDefaults.URL, SandboxURL: testDefaults.SandboxURL}, loaded)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(newMemoryStore(), testDefaults)
	expected := Settings{
		Enabled:    true,
		Sandbox:    true,
		Email:      "editor@example.org",
		Password:   "secret",
		URL:        "https://live.example.org/custom/",
		SandboxURL: "https://sandbox.example.org/custom/",
	}

	require.NoError(t, provider.Save(ctx, "oas", expected))
	loaded, err := provider.Load(ctx, "oas")
	require.NoError(t, err)
	assert.Equal(t, expected, loaded)

	other, err := provider.Load(ctx, "other")
	require.NoError(t, err)
	assert.False(t, other.Enabled)
}

func TestLoadParsesCheckboxValues(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	require.NoError(t, store.Set(ctx, "oas", Group, KeyEnabled, "on"))
	require.NoError(t, store.Set(ctx, "oas", Group, KeySandbox, ""))

	loaded, err := NewProvider(store, testDefaults).Load(ctx, "oas")
	require.NoError(t, err)
	assert.True(t, loaded.Enabled)
	assert.False(t, loaded.Sandbox)
}

func TestLoadPropagatesStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.failOn = KeyPassword

	_, err := NewProvider(store, testDefaults).Load(context.Background(), "oas")
	assert.Error(t, err)
}

func TestInstallKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	provider := NewProvider(store, testDefaults)
	require.NoError(t, provider.Set(ctx, "oas", KeyEmail, "editor@example.org"))

	written, err := provider.Install(ctx, "oas")
	require.NoError(t, err)
	assert.True(t, written)

	loaded, err := provider.Load(ctx, "oas")
	require.NoError(t, err)
	assert.Equal(t, "editor@example.org", loaded.Email)
	assert.False(t, loaded.Enabled)
	assert.True(t, loaded.Sandbox)
	assert.Equal(t, testDefaults.URL, loaded.URL)

	written, err = provider.Install(ctx, "oas")
	require.NoError(t, err)
	assert.False(t, written)
}
